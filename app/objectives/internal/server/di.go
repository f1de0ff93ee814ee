package server

import (
	"github.com/google/wire"

	"github.com/iWorld-y/loyalty_objectives/app/objectives/internal/service"
	"github.com/iWorld-y/loyalty_objectives/app/objectives/internal/usecase"
)

// ProviderSet 是目标生成服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,

	// Generator providers
	NewGenerator,
	NewUseCaseSettings,

	// UseCase providers
	usecase.NewObjectivesUseCase,

	// Service providers
	service.NewObjectivesService,
)
