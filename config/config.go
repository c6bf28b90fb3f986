// Package config resolves connection descriptors from a YAML file.
//
//	default: main
//	connections:
//	  main:
//	    driver: sqlite3
//	    dsn: "file:bow.db"
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/coderi421/bow/orm"
	"github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownConnection = errors.New("config: unknown connection")
	ErrNoDriver          = errors.New("config: no driver")
)

type Connection struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type Config struct {
	// Default 不传名字时使用的连接，只有一个连接的时候可以不填
	Default     string                `yaml:"default"`
	Connections map[string]Connection `yaml:"connections"`
}

// Load reads and parses the YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Resolve 查找连接：
// 空字符串使用默认连接；能找到名字就用对应的连接；
// 否则把 nameOrDSN 当成 DSN，驱动使用默认连接的驱动
func (c *Config) Resolve(nameOrDSN string) (Connection, error) {
	if nameOrDSN == "" {
		conn, ok := c.defaultConnection()
		if !ok {
			return Connection{}, fmt.Errorf("%w: no default", ErrUnknownConnection)
		}
		return normalize(conn)
	}
	if conn, ok := c.Connections[nameOrDSN]; ok {
		return normalize(conn)
	}

	def, ok := c.defaultConnection()
	if !ok || def.Driver == "" {
		return Connection{}, fmt.Errorf("%w for %q", ErrNoDriver, nameOrDSN)
	}
	return normalize(Connection{Driver: def.Driver, DSN: nameOrDSN})
}

// Open resolves nameOrDSN and opens it.
func (c *Config) Open(nameOrDSN string, opts ...orm.DBOption) (*orm.DB, error) {
	conn, err := c.Resolve(nameOrDSN)
	if err != nil {
		return nil, err
	}
	return orm.Open(conn.Driver, conn.DSN, opts...)
}

func (c *Config) defaultConnection() (Connection, bool) {
	if c.Default != "" {
		conn, ok := c.Connections[c.Default]
		return conn, ok
	}
	if len(c.Connections) == 1 {
		for _, conn := range c.Connections {
			return conn, true
		}
	}
	return Connection{}, false
}

// normalize 校验 MySQL 的 DSN，并补全默认参数
func normalize(conn Connection) (Connection, error) {
	if conn.Driver != "mysql" {
		return conn, nil
	}
	cfg, err := mysql.ParseDSN(conn.DSN)
	if err != nil {
		return Connection{}, fmt.Errorf("config: %w", err)
	}
	conn.DSN = cfg.FormatDSN()
	return conn, nil
}
