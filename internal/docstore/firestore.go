package docstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// healthDoc is read by Ping; it does not need to exist.
const healthDoc = "_health/ping"

// Firestore is the hosted backend. Ids for Add are generated by Firestore.
type Firestore struct {
	client *firestore.Client
}

var _ Store = (*Firestore)(nil)

func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{client: client}
}

func (f *Firestore) doc(docPath string) (*firestore.DocumentRef, error) {
	if _, _, err := Split(docPath); err != nil {
		return nil, err
	}
	ref := f.client.Doc(docPath)
	if ref == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, docPath)
	}
	return ref, nil
}

func (f *Firestore) collection(collection string) (*firestore.CollectionRef, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	ref := f.client.Collection(collection)
	if ref == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, collection)
	}
	return ref, nil
}

func (f *Firestore) Get(ctx context.Context, docPath string) (Document, error) {
	ref, err := f.doc(docPath)
	if err != nil {
		return Document{}, err
	}

	snap, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("firestore get %s: %w", docPath, err)
	}
	return Document{ID: snap.Ref.ID, Data: nonNil(snap.Data())}, nil
}

func (f *Firestore) List(ctx context.Context, collection string) ([]Document, error) {
	ref, err := f.collection(collection)
	if err != nil {
		return nil, err
	}

	snaps, err := ref.OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("firestore list %s: %w", collection, err)
	}
	out := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, Document{ID: snap.Ref.ID, Data: nonNil(snap.Data())})
	}
	return out, nil
}

func (f *Firestore) Create(ctx context.Context, docPath string, data map[string]any) error {
	ref, err := f.doc(docPath)
	if err != nil {
		return err
	}

	_, err = ref.Create(ctx, nonNil(data))
	if status.Code(err) == codes.AlreadyExists {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("firestore create %s: %w", docPath, err)
	}
	return nil
}

func (f *Firestore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	ref, err := f.collection(collection)
	if err != nil {
		return "", err
	}

	doc, _, err := ref.Add(ctx, nonNil(data))
	if err != nil {
		return "", fmt.Errorf("firestore add %s: %w", collection, err)
	}
	return doc.ID, nil
}

func (f *Firestore) Set(ctx context.Context, docPath string, data map[string]any) error {
	ref, err := f.doc(docPath)
	if err != nil {
		return err
	}

	if _, err := ref.Set(ctx, nonNil(data)); err != nil {
		return fmt.Errorf("firestore set %s: %w", docPath, err)
	}
	return nil
}

func (f *Firestore) Delete(ctx context.Context, docPath string) error {
	ref, err := f.doc(docPath)
	if err != nil {
		return err
	}

	_, err = ref.Delete(ctx, firestore.Exists)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("firestore delete %s: %w", docPath, err)
	}
	return nil
}

func (f *Firestore) Ping(ctx context.Context) error {
	_, err := f.client.Doc(healthDoc).Get(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return fmt.Errorf("firestore ping: %w", err)
	}
	return nil
}

func (f *Firestore) Close() error {
	return f.client.Close()
}

func nonNil(data map[string]any) map[string]any {
	if data == nil {
		return map[string]any{}
	}
	return data
}
