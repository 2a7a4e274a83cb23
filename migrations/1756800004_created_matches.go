package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		teams, err := app.FindCollectionByNameOrId("teams")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("matches")

		collection.Fields.Add(
			&core.RelationField{Name: "home_team", Required: true, CollectionId: teams.Id, MaxSelect: 1},
			&core.RelationField{Name: "away_team", Required: true, CollectionId: teams.Id, MaxSelect: 1},
			&core.DateField{Name: "date", Required: true},
			&core.TextField{Name: "stadium", Required: true},
			&core.AutodateField{Name: "created", OnCreate: true},
			&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
		)

		// Catches exact-order duplicates at the storage layer; the
		// reversed ordering is checked before insert by the catalog
		// service.
		collection.AddIndex("idx_matches_pair_date", true, "home_team, away_team, date", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("matches")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
