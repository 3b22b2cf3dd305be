package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cagataysunal/payroll-manager/internal/core/domain"
	"github.com/cagataysunal/payroll-manager/internal/core/ports"
)

const (
	collectionEmployees = "employees"
	collectionCounters  = "counters"
	employeeSequence    = "employees"
)

// EmployeeRepository keeps employees as documents keyed by a numeric _id
// drawn from the counters collection.
type EmployeeRepository struct {
	employees *mongo.Collection
	counters  *mongo.Collection
	now       func() time.Time
}

func NewEmployeeRepository(db *mongo.Database) *EmployeeRepository {
	return &EmployeeRepository{
		employees: db.Collection(collectionEmployees),
		counters:  db.Collection(collectionCounters),
		now:       time.Now,
	}
}

var _ ports.EmployeeRepository = (*EmployeeRepository)(nil)

type employeeDocument struct {
	ID             int64     `bson:"_id"`
	Email          string    `bson:"email"`
	Name           string    `bson:"name"`
	EntryDate      time.Time `bson:"entry_date"`
	Age            *int      `bson:"age"`
	Pay            float64   `bson:"pay"`
	Role           string    `bson:"role"`
	HashedPassword string    `bson:"hashed_password"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

type counterDocument struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

// EnsureIndexes creates the unique email index.
func (r *EmployeeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.employees.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	if err != nil {
		return fmt.Errorf("create employee indexes: %w", err)
	}
	return nil
}

func (r *EmployeeRepository) nextID(ctx context.Context) (int64, error) {
	var c counterDocument
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": employeeSequence},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&c)
	if err != nil {
		return 0, fmt.Errorf("allocate employee id: %w", err)
	}
	return c.Seq, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}

	now := r.now().UTC()
	doc := toDocument(e)
	doc.ID = id
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.employees.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmployeeExists
		}
		return fmt.Errorf("insert employee: %w", err)
	}

	e.ID = id
	e.CreatedAt = now
	e.UpdatedAt = now
	return nil
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*domain.Employee, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *EmployeeRepository) findOne(ctx context.Context, filter bson.M) (*domain.Employee, error) {
	var doc employeeDocument
	if err := r.employees.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("find employee: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *EmployeeRepository) List(ctx context.Context) ([]*domain.Employee, error) {
	cur, err := r.employees.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer cur.Close(ctx)

	var docs []employeeDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode employees: %w", err)
	}

	employees := make([]*domain.Employee, 0, len(docs))
	for i := range docs {
		employees = append(employees, docs[i].toDomain())
	}
	return employees, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, e *domain.Employee) error {
	now := r.now().UTC()
	doc := toDocument(e)

	res, err := r.employees.UpdateOne(ctx, bson.M{"_id": e.ID}, bson.M{"$set": bson.M{
		"email":           doc.Email,
		"name":            doc.Name,
		"entry_date":      doc.EntryDate,
		"age":             doc.Age,
		"pay":             doc.Pay,
		"role":            doc.Role,
		"hashed_password": doc.HashedPassword,
		"updated_at":      now,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmployeeExists
		}
		return fmt.Errorf("update employee: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEmployeeNotFound
	}

	e.UpdatedAt = now
	return nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.employees.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

func toDocument(e *domain.Employee) employeeDocument {
	return employeeDocument{
		ID:             e.ID,
		Email:          e.Email,
		Name:           e.Name,
		EntryDate:      domain.TruncateDate(e.EntryDate),
		Age:            e.Age,
		Pay:            e.Pay,
		Role:           string(e.Role),
		HashedPassword: e.PasswordHash,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func (d employeeDocument) toDomain() *domain.Employee {
	return &domain.Employee{
		ID:           d.ID,
		Email:        d.Email,
		Name:         d.Name,
		EntryDate:    domain.TruncateDate(d.EntryDate),
		Age:          d.Age,
		Pay:          d.Pay,
		Role:         domain.Role(d.Role),
		PasswordHash: d.HashedPassword,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}
