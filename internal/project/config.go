// Package project 处理 jasm 项目：jasmin.toml 配置、源码根目录与输出目录
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// 常量定义
const (
	ConfigFileName = "jasmin.toml" // 配置文件名

	DefaultSourceDir = "src/main/jasmin"
	DefaultOutputDir = "build/classes/jasmin/main"
	DefaultEncoding  = "UTF-8"
)

// Config 项目配置
type Config struct {
	Build BuildConfig `toml:"build"`
}

// BuildConfig 构建配置
type BuildConfig struct {
	// SourceDirs 源码根目录，按顺序匹配
	SourceDirs []string `toml:"source_dirs"`

	// OutputDir class 文件输出目录
	OutputDir string `toml:"output_dir"`

	// Encoding 源码字符集
	Encoding string `toml:"encoding"`

	// Verify 写出前是否校验生成的 class 文件
	Verify bool `toml:"verify"`

	// Workers 并发编译的单元数，0 表示 CPU 核数
	Workers int `toml:"workers"`

	// KeepGoing 某个单元失败后是否继续编译其余单元
	KeepGoing bool `toml:"keep_going"`

	// Report JSON 构建报告的输出路径，空表示不输出
	Report string `toml:"report"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Build: BuildConfig{
			SourceDirs: []string{DefaultSourceDir},
			OutputDir:  DefaultOutputDir,
			Encoding:   DefaultEncoding,
			Verify:     true,
		},
	}
}

// LoadConfig 从文件加载配置，文件中没有的字段保留默认值
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if config.Build.Workers < 0 {
		return nil, fmt.Errorf("invalid config file %s: workers must not be negative", path)
	}

	return config, nil
}

// Save 保存配置到文件
func (c *Config) Save(path string) error {
	content := generateConfigWithComments(c)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// generateConfigWithComments 生成带注释的配置文件内容
func generateConfigWithComments(c *Config) string {
	var sb strings.Builder
	b := c.Build

	quoted := make([]string, len(b.SourceDirs))
	for i, dir := range b.SourceDirs {
		quoted[i] = fmt.Sprintf("%q", filepath.ToSlash(dir))
	}

	sb.WriteString("[build]\n")
	sb.WriteString("# 源码根目录，输出保留文件相对于根目录的路径\n")
	sb.WriteString(fmt.Sprintf("source_dirs = [%s]\n\n", strings.Join(quoted, ", ")))
	sb.WriteString("# class 文件输出目录\n")
	sb.WriteString(fmt.Sprintf("output_dir = %q\n\n", filepath.ToSlash(b.OutputDir)))
	sb.WriteString("# 源码字符集\n")
	sb.WriteString(fmt.Sprintf("encoding = %q\n\n", b.Encoding))
	sb.WriteString("# 写出前校验生成的 class 文件\n")
	sb.WriteString(fmt.Sprintf("verify = %t\n\n", b.Verify))
	sb.WriteString("# 并发编译数，0 表示 CPU 核数\n")
	sb.WriteString(fmt.Sprintf("workers = %d\n\n", b.Workers))
	sb.WriteString("# 某个文件失败后继续编译其余文件\n")
	sb.WriteString(fmt.Sprintf("keep_going = %t\n\n", b.KeepGoing))
	sb.WriteString("# JSON 构建报告路径，留空不输出\n")
	sb.WriteString(fmt.Sprintf("report = %q\n", filepath.ToSlash(b.Report)))

	return sb.String()
}

// WorkerCount 返回实际使用的并发数
func (b *BuildConfig) WorkerCount() int {
	if b.Workers > 0 {
		return b.Workers
	}
	return runtime.NumCPU()
}

// Resolve 把相对路径解析为相对于项目根目录的路径
func (c *Config) Resolve(root string) {
	b := &c.Build
	for i, dir := range b.SourceDirs {
		b.SourceDirs[i] = resolvePath(root, dir)
	}
	b.OutputDir = resolvePath(root, b.OutputDir)
	if b.Report != "" {
		b.Report = resolvePath(root, b.Report)
	}
}

func resolvePath(root, path string) string {
	path = filepath.FromSlash(path)
	if filepath.IsAbs(path) || root == "" {
		return path
	}
	return filepath.Join(root, path)
}

// FindConfigFile 从指定路径向上查找配置文件
// 返回配置文件的完整路径，如果找不到则返回空字符串
func FindConfigFile(startPath string) string {
	info, err := os.Stat(startPath)
	if err != nil {
		return ""
	}

	dir := startPath
	if !info.IsDir() {
		dir = filepath.Dir(startPath)
	}

	dir, err = filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// ProjectRoot 获取项目根目录（配置文件所在目录），找不到时返回空字符串
func ProjectRoot(startPath string) string {
	configPath := FindConfigFile(startPath)
	if configPath == "" {
		return ""
	}
	return filepath.Dir(configPath)
}

// Load 从 startPath 向上查找并加载配置，路径已解析为绝对路径
//
// 找不到配置文件时返回以 startPath 为根的默认配置，found 为 false。
func Load(startPath string) (config *Config, found bool, err error) {
	path := FindConfigFile(startPath)
	if path == "" {
		root, err := filepath.Abs(startPath)
		if err != nil {
			return nil, false, err
		}
		config = Default()
		config.Resolve(root)
		return config, false, nil
	}

	config, err = LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	config.Resolve(filepath.Dir(path))
	return config, true, nil
}
