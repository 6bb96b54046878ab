package upload

import (
	"context"
	"fmt"
	"io"

	"gallery/internal/assetid"
	"gallery/internal/imageproc"
)

// Prepared is one encoded file ready to be packed into an upload request.
type Prepared struct {
	Name  string
	ID    assetid.ID
	Asset imageproc.EncodedAsset
}

// Path is the shard path the server stores both renditions under.
func (p Prepared) Path() string { return p.ID.ShardPath() }

// Unit turns a single source into a Prepared asset.
type Unit struct {
	Engine *imageproc.Engine
	IDs    *assetid.Generator
}

// Prepare reads src fully, encodes it and assigns a fresh id.
func Prepare(ctx context.Context, src Source) (Prepared, error) {
	return Unit{}.Prepare(ctx, src)
}

// Prepare reads src fully, encodes it and assigns a fresh id. Read failures
// are returned unwrapped; decode failures keep their *imageproc.DecodeError.
func (u Unit) Prepare(ctx context.Context, src Source) (Prepared, error) {
	if err := ctx.Err(); err != nil {
		return Prepared{}, err
	}
	raw, err := readAll(src)
	if err != nil {
		return Prepared{}, err
	}

	var asset imageproc.EncodedAsset
	if u.Engine != nil {
		asset, err = u.Engine.Process(raw)
	} else {
		asset, err = imageproc.Process(raw)
	}
	if err != nil {
		return Prepared{}, fmt.Errorf("%s: %w", src.Name(), err)
	}

	var id assetid.ID
	if u.IDs != nil {
		if id, err = u.IDs.Next(); err != nil {
			return Prepared{}, err
		}
	} else {
		id = assetid.New()
	}
	return Prepared{Name: src.Name(), ID: id, Asset: asset}, nil
}

func readAll(src Source) ([]byte, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
