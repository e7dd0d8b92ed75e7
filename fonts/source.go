package fonts

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/typeloop/logging"
)

// BuiltinPrefix 标记内置字体，例如 "builtin:goregular"。
const BuiltinPrefix = "builtin:"

// DefaultSource 是未指定字体时使用的内置字体。
const DefaultSource = BuiltinPrefix + "goregular"

var builtin = map[string][]byte{
	"goregular": goregular.TTF,
	"gobold":    gobold.TTF,
	"gomono":    gomono.TTF,
}

// Builtins 返回全部内置字体名，已排序。
func Builtins() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, BuiltinPrefix+n)
	}
	sort.Strings(names)
	return names
}

// Read 返回字体数据。path 可写为 "builtin:goregular" 或磁盘路径。
func Read(path string) ([]byte, error) {
	if name, ok := strings.CutPrefix(path, BuiltinPrefix); ok {
		data, found := builtin[name]
		if !found {
			return nil, fmt.Errorf("未知的内置字体 %s", name)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", path, err)
	}
	return data, nil
}

// Open 读取并加载字体。读取失败时回退到默认内置字体并记录警告，解析失败则直接返回错误。
func Open(path string) (*Provider, error) {
	if path == "" {
		path = DefaultSource
	}
	data, err := Read(path)
	if err != nil {
		if path == DefaultSource {
			return nil, err
		}
		logging.Logger().Warn("font fallback", "path", path, "err", err)
		path = DefaultSource
		data = goregular.TTF
	}
	p := New()
	if err := p.Load(path, data); err != nil {
		return nil, err
	}
	return p, nil
}

var (
	defaultOnce     sync.Once
	defaultProvider *Provider
)

// Default 返回共享的内置字体 Provider，测试与无字体配置的场景使用。
func Default() *Provider {
	defaultOnce.Do(func() {
		p := New()
		if err := p.Load(DefaultSource, goregular.TTF); err != nil {
			panic(err)
		}
		defaultProvider = p
	})
	return defaultProvider
}
