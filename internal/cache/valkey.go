package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/valkey-io/valkey-go"
)

// ValkeyCache stores audit results in Valkey
type ValkeyCache struct {
	client valkey.Client
}

// Ensure ValkeyCache implements Cache
var _ Cache = (*ValkeyCache)(nil)

// NewValkeyCache connects to a Valkey server and pings it
func NewValkeyCache(address, password string) (*ValkeyCache, error) {
	if address == "" {
		return nil, fmt.Errorf("valkey address is required")
	}

	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:      []string{address},
		Password:         password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create valkey client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping valkey: %w", err)
	}

	logrus.Infof("Connected to valkey at %s", address)
	return &ValkeyCache{client: client}, nil
}

func (v *ValkeyCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := v.client.Do(ctx, v.client.B().Get().Key(key).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("valkey get %s: %w", key, err)
	}
	return value, true, nil
}

// Set writes the value and, for a positive ttl, an expiry in the same round trip
func (v *ValkeyCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	commands := []valkey.Completed{
		v.client.B().Set().Key(key).Value(valkey.BinaryString(value)).Build(),
	}
	if seconds := int64(ttl / time.Second); seconds > 0 {
		commands = append(commands, v.client.B().Expire().Key(key).Seconds(seconds).Build())
	}

	for _, res := range v.client.DoMulti(ctx, commands...) {
		if err := res.Error(); err != nil {
			return fmt.Errorf("valkey set %s: %w", key, err)
		}
	}
	return nil
}

func (v *ValkeyCache) Close() error {
	v.client.Close()
	return nil
}
