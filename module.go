package anyconf

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/0xalexb/anyconf/registry"
)

type loaderParams struct {
	fx.In

	Logger *slog.Logger `optional:"true"`
}

// Module creates an Fx module providing *Loader and the *registry.Registry it uses.
// A *slog.Logger in the container becomes the Loader's logger unless opts set one.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func Module(opts ...Option) fx.Option {
	return fx.Module("anyconf",
		fx.Provide(func(params loaderParams) *Loader {
			var all []Option

			if params.Logger != nil {
				all = append(all, WithLogger(params.Logger))
			}

			return New(append(all, opts...)...)
		}),
		fx.Provide(func(loader *Loader) *registry.Registry {
			return loader.Registry()
		}),
	)
}
