package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("admins")

		collection.Fields.Add(
			&core.TextField{Name: "first_name", Required: true},
			&core.TextField{Name: "last_name", Required: true},
			&core.EmailField{Name: "email", Required: true},
			&core.TextField{Name: "password_hash", Required: true, Hidden: true},
			&core.TextField{Name: "token", Hidden: true},
			&core.AutodateField{Name: "created", OnCreate: true},
			&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
		)

		collection.AddIndex("idx_admins_email", true, "email", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("admins")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
