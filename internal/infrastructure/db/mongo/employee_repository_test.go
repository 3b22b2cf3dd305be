package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/cagataysunal/payroll-manager/internal/core/domain"
)

func TestEmployeeDocument_RoundTrip(t *testing.T) {
	age := 29
	e := &domain.Employee{
		ID:           3,
		Email:        "a@x.com",
		Name:         "A",
		EntryDate:    time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC),
		Age:          &age,
		Pay:          1000,
		Role:         domain.RoleAdmin,
		PasswordHash: "hash",
	}

	raw, err := bson.Marshal(toDocument(e))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if fields["_id"] != int64(3) || fields["hashed_password"] != "hash" || fields["role"] != "ADMIN" {
		t.Fatalf("unexpected document: %+v", fields)
	}

	var doc employeeDocument
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal document: %v", err)
	}
	back := doc.toDomain()
	if back.ID != 3 || back.Email != "a@x.com" || back.Role != domain.RoleAdmin || back.PasswordHash != "hash" {
		t.Fatalf("unexpected employee: %+v", back)
	}
	if back.Age == nil || *back.Age != 29 {
		t.Fatalf("unexpected age: %v", back.Age)
	}
	if !back.EntryDate.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("entry date not truncated: %v", back.EntryDate)
	}
}

func TestEmployeeDocument_NullAge(t *testing.T) {
	raw, err := bson.Marshal(toDocument(&domain.Employee{ID: 1, Email: "b@x.com", Role: domain.RoleEmployee}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v, ok := fields["age"]; !ok || v != nil {
		t.Fatalf("expected an explicit null age, got %v (present=%v)", v, ok)
	}
}
