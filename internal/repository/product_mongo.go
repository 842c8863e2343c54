package repository

import (
	"context"

	"github.com/chatda/chatda-api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProductMongo serves candidate retrieval over the product catalog.
//
// Expected schema:
//
//	products
//	  { model_no, name, category, price, benefit_price, rating, review_count,
//	    image_url, spec: {…}, embedding: []float32 }
//
// with an Atlas Vector Search index named "product_embedding_index" on "embedding".
type ProductMongo struct {
	col       *mongo.Collection
	vectorIdx string
}

// NewProductRepository returns a ProductMongo over the "products" collection.
func NewProductRepository(db *mongo.Database) *ProductMongo {
	return &ProductMongo{
		col:       db.Collection("products"),
		vectorIdx: "product_embedding_index",
	}
}

// VectorSearch returns the k products whose embedding is closest to queryVec,
// best match first.
func (r *ProductMongo) VectorSearch(ctx context.Context, queryVec []float32, k int) ([]models.Product, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: r.vectorIdx},
			{Key: "queryVector", Value: queryVec},
			{Key: "path", Value: "embedding"},
			{Key: "numCandidates", Value: k * 10},
			{Key: "limit", Value: k},
		}}},
		{{Key: "$set", Value: bson.D{
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "embedding", Value: 0}, // omit heavy field
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}
