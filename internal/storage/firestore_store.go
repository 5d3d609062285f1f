package storage

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore keeps each collection as a Firestore collection with the
// document id as the _id field.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func (s *FirestoreStore) Find(ctx context.Context, collection string, q Query, out any) error {
	query := s.client.Collection(collection).Query
	for _, f := range q.Where {
		query = query.Where(f.Field, "==", f.Value)
	}
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Desc {
			dir = firestore.Desc
		}
		query = query.OrderBy(q.OrderBy, dir)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	snaps, err := query.Documents(ctx).GetAll()
	if err != nil {
		return err
	}
	docs := make([]map[string]any, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, snapshotDocument(snap))
	}
	return decodeAll(docs, out)
}

func snapshotDocument(snap *firestore.DocumentSnapshot) map[string]any {
	m := normalize(snap.Data()).(map[string]any)
	m["_id"] = snap.Ref.ID
	return m
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string, out any) error {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if isNotFound(err) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return decodeOne(snapshotDocument(snap), out)
}

func (s *FirestoreStore) Insert(ctx context.Context, collection string, doc any) (string, error) {
	id := uuid.New().String()
	if err := s.Set(ctx, collection, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

func (s *FirestoreStore) Set(ctx context.Context, collection, id string, doc any) error {
	m, err := toDocument(doc)
	if err != nil {
		return err
	}
	delete(m, "_id")
	_, err = s.client.Collection(collection).Doc(id).Set(ctx, m)
	return err
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, fields Fields) error {
	values, err := normalizeFields(fields)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	updates := make([]firestore.Update, 0, len(keys))
	for _, k := range keys {
		updates = append(updates, firestore.Update{Path: k, Value: values[k]})
	}
	_, err = s.client.Collection(collection).Doc(id).Update(ctx, updates)
	if isNotFound(err) {
		return ErrNotFound
	}
	return err
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx, firestore.Exists)
	if isNotFound(err) {
		return ErrNotFound
	}
	return err
}

func (s *FirestoreStore) Count(ctx context.Context, collection string) (int64, error) {
	snaps, err := s.client.Collection(collection).Select().Documents(ctx).GetAll()
	if err != nil {
		return 0, err
	}
	return int64(len(snaps)), nil
}

func (s *FirestoreStore) SetExclusive(ctx context.Context, collection, field, id string) error {
	col := s.client.Collection(collection)
	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		target := col.Doc(id)
		if _, err := tx.Get(target); err != nil {
			if isNotFound(err) {
				return ErrNotFound
			}
			return err
		}
		flagged, err := tx.Documents(col.Where(field, "==", true)).GetAll()
		if err != nil {
			return err
		}
		for _, snap := range flagged {
			if snap.Ref.ID == id {
				continue
			}
			if err := tx.Update(snap.Ref, []firestore.Update{{Path: field, Value: false}}); err != nil {
				return err
			}
		}
		return tx.Update(target, []firestore.Update{{Path: field, Value: true}})
	})
}

func (s *FirestoreStore) Close(ctx context.Context) error {
	return s.client.Close()
}
