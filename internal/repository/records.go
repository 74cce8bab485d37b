package repository

import (
	"context"

	"github.com/pkg/errors"

	"medicare/internal/domain"
	"medicare/internal/store"
)

// Medicines reads the medicines collection.
type Medicines struct{ st store.RecordStore }

func NewMedicines(st store.RecordStore) *Medicines { return &Medicines{st: st} }

var _ MedicineRepository = (*Medicines)(nil)

func (r *Medicines) All(ctx context.Context) ([]store.Record, error) {
	return r.st.Load(ctx, store.Medicines)
}

// Upsert replaces records with a matching id and appends the rest.
// Records without an id are skipped.
func (r *Medicines) Upsert(ctx context.Context, records []store.Record) (ImportResult, error) {
	var res ImportResult
	existing, err := r.st.Load(ctx, store.Medicines)
	if err != nil {
		return res, errors.Wrap(err, "load medicines")
	}
	index := make(map[string]int, len(existing))
	for i, rec := range existing {
		if id, ok := rec["id"].(string); ok && id != "" {
			index[id] = i
		}
	}
	for _, rec := range records {
		id, _ := rec["id"].(string)
		if id == "" {
			res.Skipped++
			continue
		}
		if i, ok := index[id]; ok {
			existing[i] = rec
			res.Updated++
			continue
		}
		index[id] = len(existing)
		existing = append(existing, rec)
		res.Created++
	}
	if err := r.st.Save(ctx, store.Medicines, existing); err != nil {
		return ImportResult{}, &domain.StoreWriteError{Collection: store.Medicines, Err: err}
	}
	return res, nil
}

// Orders is the append-only orders collection.
type Orders struct{ st store.RecordStore }

func NewOrders(st store.RecordStore) *Orders { return &Orders{st: st} }

var _ OrderRepository = (*Orders)(nil)

func (r *Orders) Append(ctx context.Context, o domain.Order) error {
	return appendRecord(ctx, r.st, store.Orders, o)
}

func (r *Orders) ListByUser(ctx context.Context, user string) ([]domain.Order, error) {
	return listByUser(ctx, r.st, store.Orders, user, func(o domain.Order) string { return o.User })
}

// Consultations is the append-only consultations collection.
type Consultations struct{ st store.RecordStore }

func NewConsultations(st store.RecordStore) *Consultations { return &Consultations{st: st} }

var _ ConsultationRepository = (*Consultations)(nil)

func (r *Consultations) Append(ctx context.Context, c domain.Consultation) error {
	return appendRecord(ctx, r.st, store.Consultations, c)
}

func (r *Consultations) ListByUser(ctx context.Context, user string) ([]domain.Consultation, error) {
	return listByUser(ctx, r.st, store.Consultations, user, func(c domain.Consultation) string { return c.User })
}

// Users stores accounts keyed by username.
type Users struct{ st store.RecordStore }

func NewUsers(st store.RecordStore) *Users { return &Users{st: st} }

var _ UserRepository = (*Users)(nil)

func (r *Users) Get(ctx context.Context, username string) (*domain.User, error) {
	records, err := r.st.Load(ctx, store.Users)
	if err != nil {
		return nil, errors.Wrap(err, "load users")
	}
	for _, rec := range records {
		if rec["username"] != username {
			continue
		}
		var u domain.User
		if err := rec.Decode(&u); err != nil {
			return nil, errors.Wrapf(err, "user %s", username)
		}
		if u.Role == "" {
			u.Role = domain.RoleUser
		}
		return &u, nil
	}
	return nil, ErrNotFound
}

func (r *Users) Create(ctx context.Context, u domain.User) error {
	if _, err := r.Get(ctx, u.Username); err == nil {
		return domain.ErrUsernameTaken
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	return appendRecord(ctx, r.st, store.Users, u)
}

// appendRecord loads the collection, appends v and saves it back. Any
// failure on this path is reported as a StoreWriteError.
func appendRecord(ctx context.Context, st store.RecordStore, name string, v any) error {
	rec, err := store.NewRecord(v)
	if err != nil {
		return &domain.StoreWriteError{Collection: name, Err: err}
	}
	records, err := st.Load(ctx, name)
	if err != nil {
		return &domain.StoreWriteError{Collection: name, Err: err}
	}
	records = append(records, rec)
	if err := st.Save(ctx, name, records); err != nil {
		return &domain.StoreWriteError{Collection: name, Err: err}
	}
	return nil
}

// listByUser decodes the records owned by user in stored order. Records
// that do not decode are skipped.
func listByUser[T any](ctx context.Context, st store.RecordStore, name, user string, owner func(T) string) ([]T, error) {
	records, err := st.Load(ctx, name)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", name)
	}
	out := make([]T, 0)
	for _, rec := range records {
		var v T
		if err := rec.Decode(&v); err != nil {
			continue
		}
		if owner(v) == user {
			out = append(out, v)
		}
	}
	return out, nil
}
