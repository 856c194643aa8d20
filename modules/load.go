package modules

import (
	"github.com/tanzim-io/tanzim/modules/content"
	"github.com/tanzim-io/tanzim/modules/hierarchy"
	"github.com/tanzim-io/tanzim/pkg/application"
)

// BuiltInModules lists the modules every deployment runs, in dependency
// order: content resolves targeting through the hierarchy services.
var BuiltInModules = []application.Module{
	hierarchy.NewModule(),
	content.NewModule(),
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range BuiltInModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
