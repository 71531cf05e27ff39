package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gocommerce/marketplace-api/internal/core/domain"
)

const (
	usersCollection   = "users"
	sellersCollection = "sellers"
)

// PrincipalRepository implements ports.PrincipalRepository for one principal
// kind. Users and sellers live in separate collections, so their email
// uniqueness constraints are independent.
type PrincipalRepository struct {
	coll *mongo.Collection
	kind domain.Kind
}

// NewUserRepository returns the credential store for buyer/admin users.
func NewUserRepository(db *mongo.Database) *PrincipalRepository {
	return &PrincipalRepository{coll: db.Collection(usersCollection), kind: domain.KindUser}
}

// NewSellerRepository returns the credential store for merchant sellers.
func NewSellerRepository(db *mongo.Database) *PrincipalRepository {
	return &PrincipalRepository{coll: db.Collection(sellersCollection), kind: domain.KindSeller}
}

type principalDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	FirstName    string             `bson:"first_name"`
	LastName     string             `bson:"last_name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Company      string             `bson:"company,omitempty"`
	Roles        []string           `bson:"roles"`
	IsActive     bool               `bson:"is_active"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func (r *PrincipalRepository) Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	doc := principalDoc{
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		Company:      p.Company,
		Roles:        rolesToStrings(p.Roles),
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt.Unix(),
		UpdatedAt:    p.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert principal: %w", err)
	}

	created := *p
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *PrincipalRepository) FindByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *PrincipalRepository) FindByID(ctx context.Context, id string) (*domain.Principal, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPrincipalNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *PrincipalRepository) findOne(ctx context.Context, filter bson.M) (*domain.Principal, error) {
	var doc principalDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("find principal: %w", err)
	}
	return r.toDomain(&doc), nil
}

func (r *PrincipalRepository) toDomain(doc *principalDoc) *domain.Principal {
	return &domain.Principal{
		ID:           doc.ID.Hex(),
		Kind:         r.kind,
		FirstName:    doc.FirstName,
		LastName:     doc.LastName,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		Company:      doc.Company,
		Roles:        stringsToRoles(doc.Roles),
		IsActive:     doc.IsActive,
		CreatedAt:    unixToTime(doc.CreatedAt),
		UpdatedAt:    unixToTime(doc.UpdatedAt),
	}
}

func rolesToStrings(roles []domain.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

func stringsToRoles(ss []string) []domain.Role {
	out := make([]domain.Role, len(ss))
	for i, s := range ss {
		out[i] = domain.Role(s)
	}
	return out
}
