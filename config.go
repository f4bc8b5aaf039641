package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/joho/godotenv"
)

const (
	DefaultTarballURL    = "https://downloads.yugabyte.com/yugabyte-ce-1.2.4.0-linux.tar.gz"
	DefaultTimeLimit     = 600 * time.Second
	SetWorkloadTimeLimit = 300 * time.Second
	DefaultRunTimeout    = 1200 * time.Second
	ClockSkewNemesis     = "clock-skew"
	RunOutputLines       = 50
)

var DefaultWorkloads = []string{
	"single-key-acid",
	"multi-key-acid",
	"counter-inc",
	"counter",
	"bank",
	"set",
	"set-index",
	"long-fork",
}

var DefaultNemeses = []string{
	"none",
	"stop-tserver",
	"kill-tserver",
	"pause-tserver",
	"stop-master",
	"kill-master",
	"pause-master",
	"stop",
	"kill",
	"pause",
	"partition-half",
	"partition-one",
	"partition-ring",
	"partition",
}

type Config struct {
	TarballURL      string
	OS              string
	LeinCmd         string
	Concurrency     string
	Workloads       []string
	BaseNemeses     []string
	EnableClockSkew bool
	Iterations      int
	// MaxTime is nil when the loop has no time budget.
	MaxTime     *time.Duration
	TimeLimit   time.Duration
	RunTimeout  time.Duration
	BaseDir     string
	SortResults string
	HistoryDB   string
	MetricsAddr string
}

func (c *Config) StoreDir() string { return filepath.Join(c.BaseDir, "store") }
func (c *Config) LogsDir() string  { return filepath.Join(c.BaseDir, "logs") }

// Nemeses is the outer matrix dimension in declared order.
func (c *Config) Nemeses() []string {
	nemeses := append([]string{}, c.BaseNemeses...)
	if c.EnableClockSkew {
		nemeses = append(nemeses, ClockSkewNemesis)
	}
	return uniqueNames(nemeses)
}

// WorkloadTimeLimit is the --time-limit passed to the tool. Set workloads
// need more of the run timeout for analysis, so they get a shorter run.
func (c *Config) WorkloadTimeLimit(workload string) time.Duration {
	if strings.HasPrefix(path.Base(workload), "set") && SetWorkloadTimeLimit < c.TimeLimit {
		return SetWorkloadTimeLimit
	}
	return c.TimeLimit
}

func (c *Config) Validate() error {
	c.Workloads = uniqueNames(c.Workloads)
	c.BaseNemeses = uniqueNames(c.BaseNemeses)
	if len(c.Workloads) == 0 {
		return fmt.Errorf("at least one workload is required")
	}
	if len(c.Nemeses()) == 0 {
		return fmt.Errorf("at least one nemesis is required")
	}
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be positive, got %v", c.Iterations)
	}
	if c.TimeLimit <= 0 {
		return fmt.Errorf("time limit must be positive, got %v", c.TimeLimit)
	}
	if c.RunTimeout <= c.TimeLimit {
		return fmt.Errorf("run timeout %v must exceed the workload time limit %v", c.RunTimeout, c.TimeLimit)
	}
	return nil
}

func uniqueNames(names []string) []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	result := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || !seen.Add(name) {
			continue
		}
		result = append(result, name)
	}
	return result
}

// LoadDotEnv reads .env from the working directory when it exists.
func LoadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	return godotenv.Load()
}

func StringEnv(key string, def string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	return value
}

func IntEnv(key string, def int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func BoolEnv(key string, def bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}

func ListEnv(key string, def []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	return strings.Split(value, ",")
}
