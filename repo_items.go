package accounts

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Items is the owned-resource repository. Every read and mutation is scoped
// to an owner id: a missing item and a foreign item are the same not-found
// outcome, so callers cannot probe for other tenants' resources.
type Items interface {
	repository.Repository[*Item]

	Create(ctx context.Context, record *Item, criteria ...repository.InsertCriteria) (*Item, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Item, criteria ...repository.InsertCriteria) (*Item, error)

	GetOwned(ctx context.Context, ownerID, itemID uuid.UUID) (*Item, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Item, error)
	RenameOwned(ctx context.Context, ownerID, itemID uuid.UUID, name string) (*Item, error)
	DeleteOwned(ctx context.Context, ownerID, itemID uuid.UUID) error
}

type items struct {
	repository.Repository[*Item]
	db *bun.DB
}

var (
	_ Items                        = (*items)(nil)
	_ repository.Repository[*Item] = (*items)(nil)
)

func NewItemsRepository(db *bun.DB) Items {
	repo := repository.NewRepository[*Item](db, repository.ModelHandlers[*Item]{
		NewRecord: func() *Item { return &Item{} },
		GetID: func(i *Item) uuid.UUID {
			if i == nil {
				return uuid.Nil
			}
			return i.ID
		},
		SetID: func(i *Item, id uuid.UUID) {
			if i != nil {
				i.ID = id
			}
		},
	})

	return &items{
		Repository: repo,
		db:         db,
	}
}

func (a *items) Create(ctx context.Context, record *Item, criteria ...repository.InsertCriteria) (*Item, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *items) CreateTx(ctx context.Context, tx bun.IDB, record *Item, criteria ...repository.InsertCriteria) (*Item, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (a *items) GetOwned(ctx context.Context, ownerID, itemID uuid.UUID) (*Item, error) {
	record := &Item{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", itemID).
		Where("?TableAlias.owner_id = ?", ownerID).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, notFoundItem(itemID)
		}
		return nil, err
	}

	return record, nil
}

func (a *items) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Item, error) {
	var records []*Item
	err := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.owner_id = ?", ownerID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (a *items) RenameOwned(ctx context.Context, ownerID, itemID uuid.UUID, name string) (*Item, error) {
	res, err := a.db.NewUpdate().
		Model((*Item)(nil)).
		Set("name = ?", name).
		Where("?TableAlias.id = ?", itemID).
		Where("?TableAlias.owner_id = ?", ownerID).
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return nil, notFoundItem(itemID)
	}

	return a.GetOwned(ctx, ownerID, itemID)
}

func (a *items) DeleteOwned(ctx context.Context, ownerID, itemID uuid.UUID) error {
	res, err := a.db.NewDelete().
		Model((*Item)(nil)).
		Where("?TableAlias.id = ?", itemID).
		Where("?TableAlias.owner_id = ?", ownerID).
		Exec(ctx)
	if err != nil {
		return err
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return notFoundItem(itemID)
	}

	return nil
}

func notFoundItem(itemID uuid.UUID) error {
	return repository.NewRecordNotFound().
		WithMetadata(map[string]any{
			"id": itemID.String(),
		})
}
