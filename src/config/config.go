package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，如 QUESTIONNAIRE_DATA_FILE
const EnvPrefix = "QUESTIONNAIRE"

// Config 结构体定义了应用程序的配置结构
type Config struct {
	DataFile            string        `mapstructure:"data_file"`              // 问卷结果JSON文件
	Encoding            string        `mapstructure:"encoding"`               // 数据文件字符集
	MaxAbsentPerSubject int           `mapstructure:"max_absent_per_subject"` // 每个受试者允许的缺失答案数
	AgeThreshold        float64       `mapstructure:"age_threshold"`          // 分组年龄界限
	ReportPath          string        `mapstructure:"report_path"`            // xlsx报告路径，空值不生成
	LogName             string        `mapstructure:"log_name"`
	LogMaxSize          string        `mapstructure:"log_max_size"`
	WatchInterval       time.Duration `mapstructure:"watch_interval"` // 两次重新分析的最小间隔
	Schedule            string        `mapstructure:"schedule"`       // cron表达式
}

var defaults = map[string]any{
	"data_file":              "",
	"encoding":               "utf-8",
	"max_absent_per_subject": 1,
	"age_threshold":          40.0,
	"report_path":            "",
	"log_name":               "questionnaire.log",
	"log_max_size":           "10 * 1024 * 1024",
	"watch_interval":         "1s",
	"schedule":               "@every 1h",
}

// Load 读取配置
// 优先级: 环境变量 > 配置文件 > 默认值，path为空时只使用环境变量和默认值
func Load(path string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	return &cfg, nil
}

// Validate 检查配置是否可用于一次分析
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DataFile) == "" {
		errs = append(errs, errors.New("data_file is required"))
	}
	if c.MaxAbsentPerSubject < 0 {
		errs = append(errs, fmt.Errorf("max_absent_per_subject must be non-negative, got %d", c.MaxAbsentPerSubject))
	}
	if c.WatchInterval < 0 {
		errs = append(errs, fmt.Errorf("watch_interval must be non-negative, got %s", c.WatchInterval))
	}
	return errors.Join(errs...)
}
