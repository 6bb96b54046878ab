package domain

import "context"

// ImageRepository owns every uploaded record and the id sequence that names them.
type ImageRepository interface {
	Create(ctx context.Context, path, user string) (ImageRecord, error)
	Get(ctx context.Context, imageID uint32) (ImageRecord, error)
	UpdateTitle(ctx context.Context, imageID uint32, title *string) (ImageRecord, error)
	List(ctx context.Context) ([]ImageRecord, error)
}

// CollectionRepository holds the membership of one named collection.
type CollectionRepository interface {
	// Add inserts records under foreignID and returns the ids that were not present yet.
	Add(ctx context.Context, foreignID uint32, records []ImageRecord) ([]uint32, error)
	ListByForeignID(ctx context.Context, foreignID uint32) ([]ImageRecord, error)
	// Remove deletes the given ids and returns those that were present.
	Remove(ctx context.Context, imageIDs []uint32) ([]uint32, error)
	Len() int
}
