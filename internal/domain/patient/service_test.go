package patient

import (
	"context"
	"errors"
	"sort"
	"testing"
)

type mockRepo struct {
	patients map[string]*Patient
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	ids := make([]string, 0, len(m.patients))
	for id := range m.patients {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []*Patient
	for i, id := range ids {
		if i < offset || len(out) >= limit {
			continue
		}
		out = append(out, m.patients[id])
	}
	return out, len(m.patients), nil
}

func (m *mockRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := m.patients[id]
	return ok, nil
}

func TestGetPatient(t *testing.T) {
	repo := &mockRepo{patients: map[string]*Patient{
		"p1": {ID: "p1", Name: "Alice Wonderland", DOB: "1990-01-01"},
	}}
	svc := NewService(repo)

	p, err := svc.GetPatient(context.Background(), "p1")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Alice Wonderland" {
		t.Errorf("name = %q", p.Name)
	}

	if _, err := svc.GetPatient(context.Background(), "p9"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListPatients_Pagination(t *testing.T) {
	repo := &mockRepo{patients: map[string]*Patient{
		"p1": {ID: "p1"}, "p2": {ID: "p2"}, "p3": {ID: "p3"},
	}}
	svc := NewService(repo)

	got, total, err := svc.ListPatients(context.Background(), 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(got) != 2 {
		t.Errorf("got %d of %d", len(got), total)
	}
	if got[0].ID != "p2" {
		t.Errorf("first id = %q", got[0].ID)
	}
}

func TestPatientExists(t *testing.T) {
	svc := NewService(&mockRepo{patients: map[string]*Patient{"p1": {ID: "p1"}}})

	for id, want := range map[string]bool{"p1": true, "p2": false} {
		got, err := svc.PatientExists(context.Background(), id)
		if err != nil || got != want {
			t.Errorf("Exists(%s) = %v, %v", id, got, err)
		}
	}
}
