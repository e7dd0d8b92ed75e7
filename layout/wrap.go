package layout

import (
	"strings"
	"unicode"
)

// measureFunc 返回文本在测量字号下的宽度。
type measureFunc func(string) (float64, error)

// balanceLines 把文本分成至多 n 行并使各行宽度尽量接近。显式换行优先于宽度均分。
// 单词数少于行数时，宽于一行目标宽度的单词在词内拆分。
func balanceLines(text string, n int, measure measureFunc) ([]string, error) {
	text = strings.ReplaceAll(text, "\r", "")
	if strings.Contains(text, "\n") {
		var out []string
		for _, l := range strings.Split(text, "\n") {
			if l = oneLine(l); l != "" {
				out = append(out, l)
			}
		}
		return out, nil
	}
	text = oneLine(text)
	if text == "" {
		return nil, nil
	}
	if n <= 1 {
		return []string{text}, nil
	}
	total, err := measure(text)
	if err != nil {
		return nil, err
	}
	limit := total / float64(n)
	tokens := tokenize(text)
	words := 0
	for _, token := range tokens {
		if strings.TrimSpace(token) != "" {
			words++
		}
	}

	var lines []string
	var builder strings.Builder
	current := 0.0
	emit := func() {
		if line := strings.TrimSpace(builder.String()); line != "" {
			lines = append(lines, line)
		}
		builder.Reset()
		current = 0
	}

	for _, token := range tokens {
		w, err := measure(token)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(token) == "" {
			if current > 0 {
				builder.WriteString(token)
				current += w
			}
			continue
		}
		pieces := []string{token}
		if words < n && w > limit {
			if pieces, err = splitTokenByWidth(token, limit, measure); err != nil {
				return nil, err
			}
		}
		for _, piece := range pieces {
			pw, err := measure(piece)
			if err != nil {
				return nil, err
			}
			// 过半即换行：片段有一半以上落在目标宽度之外时放到下一行
			if current > 0 && current+pw/2 > limit {
				emit()
			}
			builder.WriteString(piece)
			current += pw
		}
	}
	emit()

	if len(lines) > n {
		tail := strings.Join(lines[n-1:], " ")
		lines = append(lines[:n-1], tail)
	}
	return lines, nil
}

// tokenize 把文本拆成单词与空白交替的片段。
func tokenize(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

// splitTokenByWidth 按目标宽度把单词切成若干段，字符过半越界时断开。
func splitTokenByWidth(token string, limit float64, measure measureFunc) ([]string, error) {
	if limit <= 0 {
		return []string{token}, nil
	}
	var parts []string
	var builder strings.Builder
	current := 0.0
	for _, r := range token {
		w, err := measure(string(r))
		if err != nil {
			return nil, err
		}
		if builder.Len() > 0 && current+w/2 > limit {
			parts = append(parts, builder.String())
			builder.Reset()
			current = 0
		}
		builder.WriteRune(r)
		current += w
	}
	if builder.Len() > 0 {
		parts = append(parts, builder.String())
	}
	return parts, nil
}
