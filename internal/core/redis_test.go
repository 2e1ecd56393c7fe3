// AngelaMos | 2026
// redis_test.go

package core

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/carterperez-dev/soundvault/internal/config"
)

func TestRedisOptions(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.RedisConfig
		wantPool    int
		wantMinIdle int
		wantErr     bool
	}{
		{
			name:        "explicit pool",
			cfg:         config.RedisConfig{URL: "redis://localhost:6379/2", PoolSize: 20, MinIdleConns: 4},
			wantPool:    20,
			wantMinIdle: 4,
		},
		{
			name:        "min idle above pool is ignored",
			cfg:         config.RedisConfig{URL: "redis://localhost:6379/0", PoolSize: 2, MinIdleConns: 8},
			wantPool:    2,
			wantMinIdle: 0,
		},
		{
			name:    "bad scheme",
			cfg:     config.RedisConfig{URL: "http://localhost"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := redisOptions(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("redisOptions: %v", err)
			}
			if opts.PoolSize != tt.wantPool {
				t.Errorf("PoolSize = %d, want %d", opts.PoolSize, tt.wantPool)
			}
			if opts.MinIdleConns != tt.wantMinIdle {
				t.Errorf("MinIdleConns = %d, want %d", opts.MinIdleConns, tt.wantMinIdle)
			}
		})
	}
}

func TestNewRedisPing(t *testing.T) {
	mr := miniredis.RunT(t)

	r, err := NewRedis(context.Background(), config.RedisConfig{
		URL:      "redis://" + mr.Addr(),
		PoolSize: 2,
	})
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	defer r.Close()

	if err := r.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	mr.Close()

	if err := r.Ping(context.Background()); err == nil {
		t.Error("Ping succeeded against a stopped server")
	}
}
