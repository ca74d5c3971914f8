package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dhoini/gym-fee-tracker/internal/domain"
	"github.com/Dhoini/gym-fee-tracker/internal/repository"
	"github.com/Dhoini/gym-fee-tracker/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// memberDocument представление участника в коллекции
type memberDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	MemberID string             `bson:"memberId"`
	Name     string             `bson:"name"`
	Phone    string             `bson:"phone"`
	Email    string             `bson:"email"`
	Payments []domain.Payment   `bson:"payments"`
}

func toDocument(m domain.Member) memberDocument {
	return memberDocument{
		MemberID: m.MemberID,
		Name:     m.Name,
		Phone:    m.Phone,
		Email:    m.Email,
		Payments: m.Payments,
	}
}

func (d memberDocument) toDomain() domain.Member {
	return domain.Member{
		ID:       d.ID.Hex(),
		MemberID: d.MemberID,
		Name:     d.Name,
		Phone:    d.Phone,
		Email:    d.Email,
		Payments: d.Payments,
	}
}

// MongoMemberRepository реализация репозитория участников через MongoDB
type MongoMemberRepository struct {
	coll *mongo.Collection
	log  *logger.Logger
}

// NewMongoMemberRepository создает новый репозиторий участников через MongoDB
func NewMongoMemberRepository(coll *mongo.Collection, log *logger.Logger) *MongoMemberRepository {
	return &MongoMemberRepository{
		coll: coll,
		log:  log,
	}
}

// GetAll возвращает всех участников в порядке хранения
func (r *MongoMemberRepository) GetAll(ctx context.Context) ([]domain.Member, error) {
	cursor, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []memberDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode members: %w", err)
	}

	members := make([]domain.Member, 0, len(docs))
	for _, doc := range docs {
		members = append(members, doc.toDomain())
	}
	return members, nil
}

// CanonicalID возвращает ID в том виде, в котором его отдает хранилище (hex в нижнем регистре)
func (r *MongoMemberRepository) CanonicalID(id string) (string, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return "", repository.ErrNotFound
	}
	return oid.Hex(), nil
}

// GetByID возвращает участника по ID. Некорректный ObjectID считается отсутствующим.
func (r *MongoMemberRepository) GetByID(ctx context.Context, id string) (domain.Member, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Member{}, repository.ErrNotFound
	}

	var doc memberDocument
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Member{}, repository.ErrNotFound
		}
		return domain.Member{}, fmt.Errorf("failed to get member: %w", err)
	}

	return doc.toDomain(), nil
}

// Create создает нового участника
func (r *MongoMemberRepository) Create(ctx context.Context, member domain.Member) (domain.Member, error) {
	doc := toDocument(member)
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return domain.Member{}, fmt.Errorf("failed to create member: %w", err)
	}

	return doc.toDomain(), nil
}

// UpdateDetails обновляет контактные поля участника
func (r *MongoMemberRepository) UpdateDetails(ctx context.Context, id string, details domain.MemberRequest) (domain.Member, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "memberId", Value: details.MemberID},
		{Key: "name", Value: details.Name},
		{Key: "phone", Value: details.Phone},
		{Key: "email", Value: details.Email},
	}}}
	return r.findAndUpdate(ctx, id, update)
}

// UpdatePayments заменяет график платежей участника
func (r *MongoMemberRepository) UpdatePayments(ctx context.Context, id string, payments []domain.Payment) (domain.Member, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "payments", Value: payments},
	}}}
	return r.findAndUpdate(ctx, id, update)
}

func (r *MongoMemberRepository) findAndUpdate(ctx context.Context, id string, update bson.D) (domain.Member, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Member{}, repository.ErrNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc memberDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Member{}, repository.ErrNotFound
		}
		return domain.Member{}, fmt.Errorf("failed to update member: %w", err)
	}

	return doc.toDomain(), nil
}

// Delete удаляет участника
func (r *MongoMemberRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}

	result, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}

	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}

	return nil
}
