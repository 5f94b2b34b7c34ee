//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import "github.com/google/wire"

func InitializeApp(path ConfigPath) (*App, func(), error) {
	wire.Build(ProviderSet, wire.Struct(new(App), "*"))
	return nil, nil, nil
}
