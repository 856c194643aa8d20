package hierarchy

import (
	"context"
	"embed"

	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/events"
	"github.com/tanzim-io/tanzim/modules/hierarchy/infrastructure/persistence"
	"github.com/tanzim-io/tanzim/modules/hierarchy/presentation/controllers"
	"github.com/tanzim-io/tanzim/modules/hierarchy/services"
	"github.com/tanzim-io/tanzim/pkg/application"
	"github.com/tanzim-io/tanzim/pkg/composables"
)

//go:embed infrastructure/persistence/schema/hierarchy-schema.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&migrationFiles, "infrastructure/persistence/schema")

	store := persistence.NewHierarchyRepository()
	positions := persistence.NewPositionRepository()

	app.RegisterServices(
		services.NewHierarchyService(store, app.EventPublisher()),
		services.NewAssignmentService(positions, store, app.EventPublisher()),
	)

	// Sector mirrors are created after the original node's transaction has
	// committed; the subscription fires from the post-commit publish.
	linker := services.NewSectorLinker(store, app.Logger())
	app.EventPublisher().Subscribe(func(event events.NodeCreatedV1) {
		ctx := composables.WithPool(context.Background(), app.DB())
		linker.OnNodeCreated(ctx, event.Node)
	})

	app.RegisterControllers(
		controllers.NewHierarchyAPIController(app),
	)

	return nil
}

func (m *Module) Name() string {
	return "hierarchy"
}
