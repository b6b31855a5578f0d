// Package mongostore backs the POS core with MongoDB. Payment records are
// embedded in their transaction document. Selling a product touches two
// collections and runs in a session transaction, which needs a replica set.
package mongostore

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"pos-api/models"
	"pos-api/store"
)

// Collection name constants.
const (
	colProducts     = "products"
	colTransactions = "transactions"
	colUsers        = "users"
)

const labelUnknownCommit = "UnknownTransactionCommitResult"

var _ store.Store = (*Store)(nil)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

func New(client *mongo.Client, database string) *Store {
	return &Store{client: client, db: client.Database(database)}
}

func (s *Store) products() *mongo.Collection     { return s.db.Collection(colProducts) }
func (s *Store) transactions() *mongo.Collection { return s.db.Collection(colTransactions) }
func (s *Store) users() *mongo.Collection        { return s.db.Collection(colUsers) }

// Migrate creates the indexes the list and report queries rely on.
func (s *Store) Migrate(ctx context.Context) error {
	for col, indexes := range migrationIndexes() {
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, indexes); err != nil {
			return pkgerrors.Wrapf(err, "mongostore: migrate %s indexes", col)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// ==================== Products ====================

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	_, err := s.products().InsertOne(ctx, toProductDoc(p))
	return translate(err, "create product")
}

func (s *Store) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var d productDoc
	if err := s.products().FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if isNoDocuments(err) {
			return nil, models.ErrProductNotFound
		}
		return nil, translate(err, "get product")
	}
	p := fromProductDoc(&d)
	return &p, nil
}

func (s *Store) ListProducts(ctx context.Context, q store.ProductQuery) ([]models.Product, int64, error) {
	filter := productFilter(q)
	total, err := s.products().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, translate(err, "count products")
	}

	opts := options.Find().
		SetSort(productSort(q.Sort)).
		SetSkip(int64(q.Page.Offset())).
		SetLimit(int64(q.Page.Limit))
	cursor, err := s.products().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, translate(err, "list products")
	}
	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, translate(err, "decode products")
	}

	result := make([]models.Product, len(docs))
	for i := range docs {
		result[i] = fromProductDoc(&docs[i])
	}
	return result, total, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.products().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err, "delete product")
	}
	if res.DeletedCount == 0 {
		return models.ErrProductNotFound
	}
	return nil
}

func (s *Store) MarkProductSold(ctx context.Context, id string) error {
	return s.markSold(ctx, id, time.Now())
}

func (s *Store) markSold(ctx context.Context, id string, at time.Time) error {
	res, err := s.products().UpdateOne(ctx,
		bson.M{"_id": id, "stockStatus": string(models.InStock)},
		bson.M{"$set": bson.M{
			"stockStatus": string(models.OutOfStock),
			"isOnline":    false,
			"updatedAt":   at,
		}},
	)
	if err != nil {
		return translate(err, "mark product sold")
	}
	if res.MatchedCount == 1 {
		return nil
	}

	n, err := s.products().CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err, "check product")
	}
	if n == 0 {
		return models.ErrProductNotFound
	}
	return models.ErrProductSold
}

// ==================== Transactions ====================

func (s *Store) CommitSale(ctx context.Context, t *models.Transaction) error {
	session, err := s.client.StartSession()
	if err != nil {
		return translate(err, "start session")
	}
	defer session.EndSession(ctx)

	doc := toTransactionDoc(t)
	_, err = session.WithTransaction(ctx, func(sc context.Context) (any, error) {
		if t.ProductID != nil {
			if err := s.markSold(sc, *t.ProductID, t.CreatedAt); err != nil {
				return nil, err
			}
		}
		_, err := s.transactions().InsertOne(sc, doc)
		return nil, err
	})
	if err == nil {
		return nil
	}
	if hasErrorLabel(err, labelUnknownCommit) {
		return models.Fatal(err, "commit of sale %s has an unknown outcome", t.ID)
	}
	return translate(err, "commit sale")
}

func (s *Store) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	_, err := s.transactions().InsertOne(ctx, toTransactionDoc(t))
	return translate(err, "create transaction")
}

func (s *Store) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	var d transactionDoc
	if err := s.transactions().FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if isNoDocuments(err) {
			return nil, models.ErrTransactionNotFound
		}
		return nil, translate(err, "get transaction")
	}
	t := fromTransactionDoc(&d)
	return &t, nil
}

func (s *Store) ListTransactions(ctx context.Context, q store.TransactionQuery) ([]models.Transaction, int64, error) {
	filter := bson.M{}
	if q.Since != nil {
		filter["createdAt"] = bson.M{"$gte": *q.Since}
	}
	if q.Type != "" {
		filter["type"] = string(q.Type)
	}
	return s.pageTransactions(ctx, filter, bson.D{{Key: "createdAt", Value: -1}}, q.Page)
}

func (s *Store) ListDues(ctx context.Context, q store.DuesQuery) ([]models.Transaction, int64, error) {
	return s.pageTransactions(ctx, duesFilter(q.Search), bson.D{{Key: "createdAt", Value: -1}}, q.Page)
}

func (s *Store) ListOverdue(ctx context.Context, before time.Time, page store.Page) ([]models.Transaction, int64, error) {
	filter := bson.M{
		"paymentStatus": string(models.PaymentDue),
		"dueDate":       bson.M{"$lt": before},
	}
	return s.pageTransactions(ctx, filter, bson.D{{Key: "dueDate", Value: 1}}, page)
}

func (s *Store) pageTransactions(ctx context.Context, filter bson.M, sort bson.D, page store.Page) ([]models.Transaction, int64, error) {
	total, err := s.transactions().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, translate(err, "count transactions")
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Limit))
	cursor, err := s.transactions().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, translate(err, "list transactions")
	}
	var docs []transactionDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, translate(err, "decode transactions")
	}

	result := make([]models.Transaction, len(docs))
	for i := range docs {
		result[i] = fromTransactionDoc(&docs[i])
	}
	return result, total, nil
}

// ApplyCollection is a single conditional update: the version and status
// guard, the new totals and the appended record land together or not at all.
func (s *Store) ApplyCollection(ctx context.Context, c store.Collection) error {
	filter := bson.M{
		"_id":           c.TransactionID,
		"version":       c.ExpectedVersion,
		"paymentStatus": string(models.PaymentDue),
	}
	res, err := s.transactions().UpdateOne(ctx, filter, collectionUpdate(c))
	if err != nil {
		return translate(err, "apply collection")
	}
	if res.MatchedCount == 1 {
		return nil
	}

	n, err := s.transactions().CountDocuments(ctx, bson.M{"_id": c.TransactionID})
	if err != nil {
		return translate(err, "check transaction")
	}
	if n == 0 {
		return models.ErrTransactionNotFound
	}
	return models.ErrStaleVersion
}

func collectionUpdate(c store.Collection) bson.M {
	return bson.M{
		"$set": bson.M{
			"amountPaid":    c.AmountPaid,
			"dueAmount":     c.DueAmount,
			"paymentStatus": string(c.Status),
			"paymentBreakdown": breakdownDoc{
				Cash:   c.Breakdown.Cash,
				Online: c.Breakdown.Online,
				Dues:   c.Breakdown.Dues,
			},
			"updatedAt": c.At,
		},
		"$inc":  bson.M{"version": 1},
		"$push": bson.M{"paymentTypes": toPaymentDoc(c.Payment)},
	}
}

func (s *Store) UpdateDueCustomer(ctx context.Context, id string, u store.CustomerUpdate) (*models.Transaction, error) {
	set := bson.M{"updatedAt": u.At}
	if u.Name != nil {
		set["customer.name"] = *u.Name
	}
	if u.PhoneNumber != nil {
		set["customer.phoneNumber"] = *u.PhoneNumber
	}
	if u.DueDate != nil {
		set["dueDate"] = *u.DueDate
	}

	var d transactionDoc
	err := s.transactions().FindOneAndUpdate(ctx,
		bson.M{"_id": id, "paymentStatus": string(models.PaymentDue)},
		bson.M{"$set": set, "$inc": bson.M{"version": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if err != nil {
		if isNoDocuments(err) {
			return nil, models.ErrDueNotFound
		}
		return nil, translate(err, "update due customer")
	}
	t := fromTransactionDoc(&d)
	return &t, nil
}

// ==================== Users ====================

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	_, err := s.users().InsertOne(ctx, toUserDoc(u))
	return translate(err, "create user")
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *Store) FindUserByStaffID(ctx context.Context, staffID string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"staffId": staffID})
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var d userDoc
	if err := s.users().FindOne(ctx, filter).Decode(&d); err != nil {
		if isNoDocuments(err) {
			return nil, models.ErrUserNotFound
		}
		return nil, translate(err, "find user")
	}
	return fromUserDoc(&d), nil
}

// ==================== helpers ====================

func productFilter(q store.ProductQuery) bson.M {
	filter := bson.M{}
	if q.OnlineOnly {
		filter["isOnline"] = true
	}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.SubCategory != "" {
		filter["subCategory"] = q.SubCategory
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		price := bson.M{}
		if q.MinPrice != nil {
			price["$gte"] = *q.MinPrice
		}
		if q.MaxPrice != nil {
			price["$lte"] = *q.MaxPrice
		}
		filter["price"] = price
	}
	if q.Search != "" {
		re := containsRegex(q.Search)
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
			bson.M{"subCategory": re},
		}
	}
	return filter
}

func productSort(sort store.ProductSort) bson.D {
	switch sort {
	case store.SortPriceLow:
		return bson.D{{Key: "price", Value: 1}, {Key: "createdAt", Value: -1}}
	case store.SortPriceHigh:
		return bson.D{{Key: "price", Value: -1}, {Key: "createdAt", Value: -1}}
	case store.SortBestSeller:
		return bson.D{{Key: "isBestSeller", Value: -1}, {Key: "createdAt", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

func duesFilter(search string) bson.M {
	filter := bson.M{
		"paymentStatus": string(models.PaymentDue),
		"dueAmount":     bson.M{"$gt": 0},
	}
	if search != "" {
		re := containsRegex(search)
		filter["$or"] = bson.A{
			bson.M{"customer.name": re},
			bson.M{"customer.phoneNumber": re},
		}
	}
	return filter
}

// containsRegex matches s literally anywhere, ignoring case.
func containsRegex(s string) bson.Regex {
	return bson.Regex{Pattern: regexp.QuoteMeta(strings.TrimSpace(s)), Options: "i"}
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

func hasErrorLabel(err error, label string) bool {
	var se mongo.ServerError
	return errors.As(err, &se) && se.HasErrorLabel(label)
}

func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrDuplicate
	}
	return pkgerrors.Wrap(err, "mongostore: "+op)
}

func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colProducts: {
			{Keys: bson.D{{Key: "isOnline", Value: 1}, {Key: "category", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "price", Value: 1}}},
		},
		colTransactions: {
			{Keys: bson.D{{Key: "paymentStatus", Value: 1}, {Key: "dueAmount", Value: 1}}},
			{Keys: bson.D{{Key: "paymentStatus", Value: 1}, {Key: "dueDate", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "staffId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "type", Value: 1}, {Key: "productSnapshot.category", Value: 1}}},
		},
		colUsers: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetSparse(true),
			},
			{
				Keys:    bson.D{{Key: "staffId", Value: 1}},
				Options: options.Index().SetUnique(true).SetSparse(true),
			},
		},
	}
}
