//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/weather-advisor/internal/bootstrap"
	"github.com/yanqian/weather-advisor/internal/domain/weather"
	"github.com/yanqian/weather-advisor/internal/infra/config"
	"github.com/yanqian/weather-advisor/internal/infra/weather/weatherapi"
	httpiface "github.com/yanqian/weather-advisor/internal/interface/http"
	"github.com/yanqian/weather-advisor/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideWeatherConfig,
		provideChatClient,
		provideWeatherClient,
		provideTokenCounter,
		weather.NewService,
		wire.Bind(new(weather.WeatherClient), new(*weatherapi.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
