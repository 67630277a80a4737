package mongo

import (
	"context"
	"time"

	"account/internal/domain/entity"
	domainerrors "account/internal/domain/errors"
	"account/internal/domain/repository"
	"account/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// accountRepository implements repository.AccountRepository on a single collection.
type accountRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewAccountRepository returns the collection-backed account store.
func NewAccountRepository(collection *mongo.Collection) repository.AccountRepository {
	return &accountRepository{
		collection: collection,
		now:        time.Now,
	}
}

// FindByID retrieves a single account by its hex ObjectID.
// A malformed id cannot match any document and is reported as not found.
func (repo *accountRepository) FindByID(ctx context.Context, id string) (*entity.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrAccountNotFound
	}

	return repo.findOne(ctx, bson.M{"_id": oid}, "failed to find account by id")
}

// FindByEmail retrieves a single account by its email address.
func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return repo.findOne(ctx, bson.M{"email": email}, "failed to find account by email")
}

func (repo *accountRepository) findOne(ctx context.Context, filter bson.M, details string) (*entity.Account, error) {
	var accountM model.AccountModel
	if err := repo.collection.FindOne(ctx, filter).Decode(&accountM); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, details)
	}

	return accountM.ToDomain(), nil
}

// Create inserts a new account document and writes the generated ID and
// timestamps back into the entity.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	now := repo.timestamp()

	accountM := model.FromAccount(account)
	accountM.ID = primitive.NewObjectID()
	accountM.CreatedAt = now
	accountM.UpdatedAt = now

	if _, err := repo.collection.InsertOne(ctx, accountM); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainerrors.ErrAccountAlreadyExists.WrapMessage("email already exists")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create account")
	}

	account.ID = accountM.ID.Hex()
	account.CreatedAt = now
	account.UpdatedAt = now

	return nil
}

// Replace overwrites name, email and password hash in one update.
func (repo *accountRepository) Replace(ctx context.Context, account *entity.Account) error {
	oid, err := primitive.ObjectIDFromHex(account.ID)
	if err != nil {
		return repository.ErrAccountNotFound
	}

	now := repo.timestamp()
	update := bson.M{"$set": bson.M{
		"name":      account.Name,
		"email":     account.Email,
		"password":  account.PasswordHash,
		"updatedAt": now,
	}}

	result, err := repo.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainerrors.ErrAccountAlreadyExists.WrapMessage("email already exists")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to replace account")
	}
	if result.MatchedCount == 0 {
		return repository.ErrAccountNotFound
	}

	account.UpdatedAt = now

	return nil
}

// Delete removes the account document with the given id.
func (repo *accountRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrAccountNotFound
	}

	result, err := repo.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete account")
	}
	if result.DeletedCount == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}

// timestamp is truncated to the millisecond precision BSON dates keep,
// so entities match what a later read returns.
func (repo *accountRepository) timestamp() time.Time {
	return repo.now().UTC().Truncate(time.Millisecond)
}
