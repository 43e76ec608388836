package libvirt

import (
	"context"
	"fmt"
	"time"

	"github.com/digitalocean/go-libvirt"
	"github.com/digitalocean/go-libvirt/socket/dialers"
	"github.com/samber/lo"
)

const (
	// DefaultSocket is the qemu:///system daemon socket.
	DefaultSocket = "/var/run/libvirt/libvirt-sock"

	// DefaultTimeout bounds the socket dial.
	DefaultTimeout = 5 * time.Second
)

// Client wraps a go-libvirt connection to the daemon virt-install talks to.
type Client struct {
	libvirt *libvirt.Libvirt
}

// Connect dials the daemon socket. An empty socketPath means DefaultSocket
// and a zero timeout means DefaultTimeout. The Client must be closed.
func Connect(socketPath string, timeout time.Duration) (*Client, error) {
	socketPath = lo.Ternary(socketPath == "", DefaultSocket, socketPath)
	timeout = lo.Ternary(timeout == 0, DefaultTimeout, timeout)

	l := libvirt.NewWithDialer(dialers.NewLocal(
		dialers.WithSocket(socketPath),
		dialers.WithLocalTimeout(timeout),
	))
	if err := l.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to libvirt at %s: %w", socketPath, err)
	}
	return &Client{libvirt: l}, nil
}

// ConnectWithContext is Connect that gives up when ctx is done. A connection
// completing after that is closed in the background.
func ConnectWithContext(ctx context.Context, socketPath string, timeout time.Duration) (*Client, error) {
	type dialResult struct {
		client *Client
		err    error
	}
	done := make(chan dialResult, 1)

	go func() {
		c, err := Connect(socketPath, timeout)
		done <- dialResult{client: c, err: err}
	}()

	select {
	case res := <-done:
		return res.client, res.err
	case <-ctx.Done():
		go func() {
			if res := <-done; res.client != nil {
				_ = res.client.Close()
			}
		}()
		return nil, fmt.Errorf("libvirt connection to %s abandoned: %w", socketPath, ctx.Err())
	}
}

// Close disconnects. Calling it again is a no-op.
func (c *Client) Close() error {
	if c.libvirt == nil {
		return nil
	}

	l := c.libvirt
	c.libvirt = nil
	if err := l.Disconnect(); err != nil {
		return fmt.Errorf("failed to disconnect from libvirt: %w", err)
	}
	return nil
}

// Ping checks that the connection still answers.
func (c *Client) Ping() error {
	if c.libvirt == nil {
		return fmt.Errorf("client not connected")
	}

	if _, err := c.Version(); err != nil {
		return fmt.Errorf("libvirt connection is dead: %w", err)
	}
	return nil
}

// Version returns the daemon's libvirt version as major.minor.release.
func (c *Client) Version() (string, error) {
	if c.libvirt == nil {
		return "", fmt.Errorf("client not connected")
	}

	v, err := c.libvirt.ConnectGetLibVersion()
	if err != nil {
		return "", fmt.Errorf("failed to get libvirt version: %w", err)
	}
	return fmt.Sprintf("%d.%d.%d", v/1000000, (v/1000)%1000, v%1000), nil
}

// Hostname returns the hypervisor's hostname.
func (c *Client) Hostname() (string, error) {
	if c.libvirt == nil {
		return "", fmt.Errorf("client not connected")
	}

	hostname, err := c.libvirt.ConnectGetHostname()
	if err != nil {
		return "", fmt.Errorf("failed to get hostname: %w", err)
	}
	return hostname, nil
}

// URI returns the connection URI the daemon reports.
func (c *Client) URI() (string, error) {
	if c.libvirt == nil {
		return "", fmt.Errorf("client not connected")
	}

	uri, err := c.libvirt.ConnectGetUri()
	if err != nil {
		return "", fmt.Errorf("failed to get connection URI: %w", err)
	}
	return uri, nil
}

// EnsureDomainAbsent fails with ErrDomainExists if a domain called name is
// already defined.
func (c *Client) EnsureDomainAbsent(name string) error {
	if c.libvirt == nil {
		return fmt.Errorf("client not connected")
	}
	return EnsureDomainAbsent(c.libvirt, name)
}

// Describe returns a summary of the domain called name.
func (c *Client) Describe(name string) (*DomainSummary, error) {
	if c.libvirt == nil {
		return nil, fmt.Errorf("client not connected")
	}
	return Describe(c.libvirt, name)
}

// PoolInfo returns details about the storage pool called name.
func (c *Client) PoolInfo(name string) (*PoolInfo, error) {
	if c.libvirt == nil {
		return nil, fmt.Errorf("client not connected")
	}
	return GetPoolInfo(c.libvirt, name)
}

// EnsurePoolCapacity fails with ErrInsufficientCapacity if the pool called
// name cannot hold a sizeGB disk.
func (c *Client) EnsurePoolCapacity(name string, sizeGB uint) error {
	if c.libvirt == nil {
		return fmt.Errorf("client not connected")
	}
	return EnsurePoolCapacity(c.libvirt, name, sizeGB)
}

// StoreMetadata records doc on the domain called name.
func (c *Client) StoreMetadata(name, doc string) error {
	if c.libvirt == nil {
		return fmt.Errorf("client not connected")
	}
	return StoreMetadata(c.libvirt, name, doc)
}

// LoadMetadata returns the document previously stored on the domain.
func (c *Client) LoadMetadata(name string) (string, error) {
	if c.libvirt == nil {
		return "", fmt.Errorf("client not connected")
	}
	return LoadMetadata(c.libvirt, name)
}
