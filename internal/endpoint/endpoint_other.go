//go:build !windows

package endpoint

import "github.com/777genius/sinkswitch/internal/sink"

// Guard is never acquired outside Windows
type Guard struct{}

// AcquireGuard always fails with ErrUnsupported outside Windows
func AcquireGuard() (*Guard, error) {
	return nil, &PlatformError{Op: "initialize", Err: ErrUnsupported}
}

func (g *Guard) Active() bool { return false }

func (g *Guard) Release() {}

// Directory is a placeholder; every method reports ErrUnsupported
type Directory struct{}

func newDirectory(guard *Guard) (*Directory, error) {
	return nil, &PlatformError{Op: "create-enumerator", Err: ErrUnsupported}
}

func (d *Directory) ListRenderEndpoints() ([]sink.Sink, error) {
	return nil, &PlatformError{Op: "enumerate", Err: ErrUnsupported}
}

func (d *Directory) DefaultRenderEndpoint() (sink.Sink, error) {
	return sink.Empty(), &PlatformError{Op: "get-default", Err: ErrUnsupported}
}

func (d *Directory) SetDefaultRenderEndpoint(id string) error {
	return &PlatformError{Op: "set-default", Err: ErrUnsupported}
}

func (d *Directory) Release() {}
