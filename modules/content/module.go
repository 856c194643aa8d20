package content

import (
	"embed"

	"github.com/tanzim-io/tanzim/modules/content/infrastructure/persistence"
	"github.com/tanzim-io/tanzim/modules/content/presentation/controllers"
	"github.com/tanzim-io/tanzim/modules/content/services"
	hierarchyservices "github.com/tanzim-io/tanzim/modules/hierarchy/services"
	"github.com/tanzim-io/tanzim/pkg/application"
)

//go:embed infrastructure/persistence/schema/content-schema.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

// Register wires the content services. The hierarchy module must be
// registered first: targeting and visibility resolve through its services.
func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&migrationFiles, "infrastructure/persistence/schema")

	hierarchy := app.Service(hierarchyservices.HierarchyService{}).(*hierarchyservices.HierarchyService)

	app.RegisterServices(
		services.NewContentService(persistence.NewContentRepository(), hierarchy, app.EventPublisher()),
	)

	app.RegisterControllers(
		controllers.NewContentAPIController(app),
	)

	return nil
}

func (m *Module) Name() string {
	return "content"
}
