package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"
	"github.com/pocketbase/pocketbase/tools/types"
	"github.com/shopspring/decimal"

	"matchday/internal/status"
	"matchday/models"
	"matchday/utils"
)

type CategoryParams struct {
	Name     string
	Price    decimal.Decimal
	Capacity int
}

type MatchParams struct {
	HomeTeam   string
	AwayTeam   string
	Date       time.Time
	Stadium    string
	Categories []CategoryParams
}

type TeamUpdateParams struct {
	ID        string
	Name      string
	ShortName string
	// nil = keep, empty string = clear, otherwise base64 image data.
	Logo *string
}

// CatalogService persists teams, matches, and seat categories.
// Category and ticket creation for a match run inside one storage
// transaction so a failed insert cannot leave orphaned seats behind.
type CatalogService struct {
	app     core.App
	tickets *TicketService
}

func NewCatalogService(app core.App, tickets *TicketService) *CatalogService {
	return &CatalogService{app: app, tickets: tickets}
}

// --- teams ---

func (s *CatalogService) CreateTeam(ctx context.Context, name, shortName, logoBase64 string) (string, error) {
	shortName = strings.ToUpper(shortName)

	if _, err := s.app.FindFirstRecordByFilter(
		"teams",
		"name = {:name} || short_name = {:short}",
		dbx.Params{"name": name, "short": shortName},
	); err == nil {
		return "", status.ErrTeamExists
	}

	collection, err := s.app.FindCollectionByNameOrId("teams")
	if err != nil {
		return "", fmt.Errorf("%w: %v", status.ErrStorageUnavailable, err)
	}

	record := core.NewRecord(collection)
	record.Set("name", name)
	record.Set("short_name", shortName)

	if logoBase64 != "" {
		file, err := logoFile(logoBase64)
		if err != nil {
			return "", err
		}
		record.Set("logo", file)
	}

	if err := s.app.Save(record); err != nil {
		return "", conflictOrStorage(err, status.ErrTeamExists)
	}
	return record.Id, nil
}

func (s *CatalogService) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	record, err := s.app.FindRecordById("teams", id)
	if err != nil {
		return nil, status.ErrTeamNotFound
	}
	return teamFromRecord(record), nil
}

func (s *CatalogService) GetTeams(ctx context.Context, ids []string) ([]models.Team, error) {
	teams := make([]models.Team, 0, len(ids))
	for _, id := range ids {
		team, err := s.GetTeam(ctx, id)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *team)
	}
	return teams, nil
}

func (s *CatalogService) UpdateTeam(ctx context.Context, params TeamUpdateParams) error {
	record, err := s.app.FindRecordById("teams", params.ID)
	if err != nil {
		return status.ErrTeamNotFound
	}

	if params.Name != "" || params.ShortName != "" {
		short := strings.ToUpper(params.ShortName)
		if _, err := s.app.FindFirstRecordByFilter(
			"teams",
			"(name = {:name} || short_name = {:short}) && id != {:id}",
			dbx.Params{"name": params.Name, "short": short, "id": params.ID},
		); err == nil {
			return status.ErrTeamExists
		}
		if params.Name != "" {
			record.Set("name", params.Name)
		}
		if params.ShortName != "" {
			record.Set("short_name", short)
		}
	}

	if params.Logo != nil {
		// The file field swaps the stored asset together with the
		// record write; the old logo is not deleted ahead of a write
		// that may still fail.
		if *params.Logo == "" {
			record.Set("logo", nil)
		} else {
			file, err := logoFile(*params.Logo)
			if err != nil {
				return err
			}
			record.Set("logo", file)
		}
	}

	if err := s.app.Save(record); err != nil {
		return fmt.Errorf("%w: %v", status.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *CatalogService) RemoveTeam(ctx context.Context, id string) error {
	record, err := s.app.FindRecordById("teams", id)
	if err != nil {
		return status.ErrTeamNotFound
	}
	// Record deletion removes the stored logo with it.
	if err := s.app.Delete(record); err != nil {
		return fmt.Errorf("%w: %v", status.ErrStorageUnavailable, err)
	}
	return nil
}

// --- matches ---

func (s *CatalogService) CreateMatch(ctx context.Context, params MatchParams) (*models.Match, []models.Category, error) {
	if params.HomeTeam == params.AwayTeam {
		return nil, nil, fmt.Errorf("%w: a match needs two distinct teams", status.ErrTeamNotFound)
	}
	for _, teamID := range []string{params.HomeTeam, params.AwayTeam} {
		if _, err := s.app.FindRecordById("teams", teamID); err != nil {
			return nil, nil, status.ErrTeamNotFound
		}
	}

	if err := s.checkDuplicatePair(params.HomeTeam, params.AwayTeam, params.Date); err != nil {
		return nil, nil, err
	}

	var match *models.Match
	var categories []models.Category

	err := s.app.RunInTransaction(func(txApp core.App) error {
		matchCollection, err := txApp.FindCollectionByNameOrId("matches")
		if err != nil {
			return err
		}

		record := core.NewRecord(matchCollection)
		record.Set("home_team", params.HomeTeam)
		record.Set("away_team", params.AwayTeam)
		record.Set("date", params.Date.UTC())
		record.Set("stadium", params.Stadium)
		if err := txApp.Save(record); err != nil {
			return err
		}

		for _, categoryParams := range params.Categories {
			category, err := s.createCategory(ctx, txApp, record.Id, categoryParams)
			if err != nil {
				return err
			}
			categories = append(categories, *category)
		}

		match = &models.Match{
			ID:      record.Id,
			Date:    record.GetDateTime("date").Time(),
			Stadium: params.Stadium,
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", status.ErrStorageUnavailable, err)
	}

	return match, categories, nil
}

// checkDuplicatePair rejects a second match between the same two teams
// on the same date, in either home/away ordering. The unique
// (home_team, away_team, date) index backs the exact ordering; the
// reversed one remains a pre-insert check.
func (s *CatalogService) checkDuplicatePair(home, away string, date time.Time) error {
	records, err := s.app.FindRecordsByFilter(
		"matches",
		"date = {:date}",
		"",
		-1,
		0,
		dbx.Params{"date": date.UTC().Format(types.DefaultDateLayout)},
	)
	if err != nil {
		return fmt.Errorf("%w: %v", status.ErrStorageUnavailable, err)
	}
	for _, record := range records {
		if samePairing(home, away, record.GetString("home_team"), record.GetString("away_team")) {
			return status.ErrMatchExists
		}
	}
	return nil
}

// samePairing treats a fixture as the same game regardless of which
// side is listed as home.
func samePairing(homeA, awayA, homeB, awayB string) bool {
	return (homeA == homeB && awayA == awayB) || (homeA == awayB && awayA == homeB)
}

func (s *CatalogService) GetMatch(ctx context.Context, id string, includeOwners bool) (*models.Match, error) {
	record, err := s.app.FindRecordById("matches", id)
	if err != nil {
		return nil, status.ErrMatchNotFound
	}
	return s.hydrateMatch(ctx, record, includeOwners)
}

func (s *CatalogService) ListMatches(ctx context.Context) ([]models.Match, error) {
	records, err := s.app.FindRecordsByFilter("matches", "id != ''", "date", -1, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrStorageUnavailable, err)
	}

	matches := make([]models.Match, 0, len(records))
	for _, record := range records {
		// Listings never expose who holds a seat.
		match, err := s.hydrateMatch(ctx, record, false)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *match)
	}
	return matches, nil
}

func (s *CatalogService) UpdateMatch(ctx context.Context, id string, date *time.Time, stadium string) error {
	record, err := s.app.FindRecordById("matches", id)
	if err != nil {
		return status.ErrMatchNotFound
	}
	if date != nil {
		record.Set("date", date.UTC())
	}
	if stadium != "" {
		record.Set("stadium", stadium)
	}
	if err := s.app.Save(record); err != nil {
		return fmt.Errorf("%w: %v", status.ErrStorageUnavailable, err)
	}
	return nil
}

// AddCategory creates a category (and its seats) under an existing match.
func (s *CatalogService) AddCategory(ctx context.Context, matchID string, params CategoryParams) (*models.Category, error) {
	if _, err := s.app.FindRecordById("matches", matchID); err != nil {
		return nil, status.ErrMatchNotFound
	}

	var category *models.Category
	err := s.app.RunInTransaction(func(txApp core.App) error {
		created, err := s.createCategory(ctx, txApp, matchID, params)
		if err != nil {
			return err
		}
		category = created
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrStorageUnavailable, err)
	}
	return category, nil
}

// createCategory inserts the category record plus capacity tickets
// seat-labeled 1..capacity. Callers supply the transactional app.
func (s *CatalogService) createCategory(ctx context.Context, txApp core.App, matchID string, params CategoryParams) (*models.Category, error) {
	collection, err := txApp.FindCollectionByNameOrId("categories")
	if err != nil {
		return nil, err
	}

	record := core.NewRecord(collection)
	record.Set("match", matchID)
	record.Set("name", params.Name)
	record.Set("price", params.Price.String())
	record.Set("capacity", params.Capacity)
	if err := txApp.Save(record); err != nil {
		return nil, err
	}

	tickets, err := s.tickets.CreateBatch(ctx, txApp, record.Id, GenerateSeats(params.Capacity, 0))
	if err != nil {
		return nil, err
	}

	return &models.Category{
		ID:       record.Id,
		MatchID:  matchID,
		Name:     params.Name,
		Price:    params.Price,
		Capacity: params.Capacity,
		Tickets:  tickets,
	}, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	record, err := s.app.FindRecordById("categories", id)
	if err != nil {
		return nil, status.ErrCategoryNotFound
	}
	return categoryFromRecord(record)
}

// CategoryByTicket reverse-resolves the category that owns a ticket.
func (s *CatalogService) CategoryByTicket(ctx context.Context, ticketID string) (*models.Category, error) {
	ticket, err := s.tickets.Get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return s.GetCategory(ctx, ticket.CategoryID)
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id, name string, price *decimal.Decimal) error {
	record, err := s.app.FindRecordById("categories", id)
	if err != nil {
		return status.ErrCategoryNotFound
	}
	if name != "" {
		record.Set("name", name)
	}
	if price != nil {
		record.Set("price", price.String())
	}
	if err := s.app.Save(record); err != nil {
		return fmt.Errorf("%w: %v", status.ErrStorageUnavailable, err)
	}
	return nil
}

// AddTickets grows a category by count seats, labeled from the current
// capacity upward, and bumps the capacity in the same transaction.
func (s *CatalogService) AddTickets(ctx context.Context, categoryID string, count int) (*models.Category, error) {
	var category *models.Category

	err := s.app.RunInTransaction(func(txApp core.App) error {
		record, err := txApp.FindRecordById("categories", categoryID)
		if err != nil {
			return status.ErrCategoryNotFound
		}

		capacity := record.GetInt("capacity")
		tickets, err := s.tickets.CreateBatch(ctx, txApp, categoryID, GenerateSeats(count, capacity))
		if err != nil {
			return err
		}

		record.Set("capacity", capacity+count)
		if err := txApp.Save(record); err != nil {
			return err
		}

		category, err = categoryFromRecord(record)
		if err != nil {
			return err
		}
		category.Tickets = tickets
		return nil
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", status.ErrStorageUnavailable, err)
	}
	return category, nil
}

// --- helpers ---

func (s *CatalogService) hydrateMatch(ctx context.Context, record *core.Record, includeOwners bool) (*models.Match, error) {
	teams, err := s.GetTeams(ctx, []string{record.GetString("home_team"), record.GetString("away_team")})
	if err != nil {
		return nil, err
	}

	categoryRecords, err := s.app.FindRecordsByFilter(
		"categories",
		"match = {:match}",
		"name",
		-1,
		0,
		dbx.Params{"match": record.Id},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrStorageUnavailable, err)
	}

	categories := make([]models.Category, 0, len(categoryRecords))
	for _, categoryRecord := range categoryRecords {
		category, err := categoryFromRecord(categoryRecord)
		if err != nil {
			return nil, err
		}
		tickets, err := s.tickets.ByCategory(ctx, category.ID)
		if err != nil {
			return nil, err
		}
		if !includeOwners {
			for i := range tickets {
				tickets[i].Owner = ""
			}
		}
		category.Tickets = tickets
		categories = append(categories, *category)
	}

	return &models.Match{
		ID:         record.Id,
		Teams:      teams,
		Date:       record.GetDateTime("date").Time(),
		Stadium:    record.GetString("stadium"),
		Categories: categories,
	}, nil
}

func teamFromRecord(record *core.Record) *models.Team {
	team := &models.Team{
		ID:        record.Id,
		Name:      record.GetString("name"),
		ShortName: record.GetString("short_name"),
	}
	if filename := record.GetString("logo"); filename != "" {
		team.LogoURL = fmt.Sprintf("/api/files/teams/%s/%s", record.Id, filename)
	}
	return team
}

func categoryFromRecord(record *core.Record) (*models.Category, error) {
	price, err := decimal.NewFromString(record.GetString("price"))
	if err != nil {
		return nil, fmt.Errorf("corrupt price for category %s: %w", record.Id, err)
	}
	return &models.Category{
		ID:       record.Id,
		MatchID:  record.GetString("match"),
		Name:     record.GetString("name"),
		Price:    price,
		Capacity: record.GetInt("capacity"),
	}, nil
}

// logoFile decodes a base64 image payload into a storable file.
func logoFile(data string) (*filesystem.File, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("invalid logo encoding: %w", err)
	}

	ext := extensionFor(http.DetectContentType(raw))
	if ext == "" {
		return nil, fmt.Errorf("invalid image format")
	}

	code, err := utils.GenerateCode(5)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("img_%d_%s%s", time.Now().Unix(), strings.ToLower(code), ext)
	return filesystem.NewFileFromBytes(raw, name)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
