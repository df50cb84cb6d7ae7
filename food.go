package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Food is a marketplace listing.
type Food struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Quantity    string             `bson:"quantity,omitempty" json:"quantity,omitempty"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	ImageURL    string             `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	ExpiresAt   *time.Time         `bson:"expires_at,omitempty" json:"expiresAt,omitempty"`
	OwnerID     primitive.ObjectID `bson:"owner_id" json:"ownerId"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}

type foodRepo struct {
	col *mongo.Collection
}

func newFoodRepo(db *mongo.Database) *foodRepo {
	return &foodRepo{col: db.Collection("food")}
}

func (r *foodRepo) list(ctx context.Context) ([]Food, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(100)
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	items := []Food{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *foodRepo) byID(ctx context.Context, id primitive.ObjectID) (*Food, error) {
	var f Food
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *foodRepo) insert(ctx context.Context, f *Food) error {
	res, err := r.col.InsertOne(ctx, f)
	if err != nil {
		return err
	}
	f.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *foodRepo) update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{"$set": fields})
	return err
}

func (r *foodRepo) delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// ------------ handlers ------------

type foodRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Quantity    string     `json:"quantity"`
	Category    string     `json:"category"`
	Location    string     `json:"location"`
	ImageURL    string     `json:"imageUrl"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}

func (a *api) listFoodHandler(w http.ResponseWriter, r *http.Request) {
	items, err := a.food.list(r.Context())
	if err != nil {
		a.log.Errorf("list food: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (a *api) getFoodHandler(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ID format")
		return
	}
	item, err := a.food.byID(r.Context(), id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respondError(w, http.StatusNotFound, "listing not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (a *api) createFoodHandler(w http.ResponseWriter, r *http.Request) {
	var req foodRequest
	if json.NewDecoder(r.Body).Decode(&req) != nil {
		respondError(w, http.StatusBadRequest, "bad request")
		return
	}
	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	owner, err := primitive.ObjectIDFromHex(userIDFrom(r.Context()))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	item := &Food{
		Title:       req.Title,
		Description: req.Description,
		Quantity:    req.Quantity,
		Category:    req.Category,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
		ExpiresAt:   req.ExpiresAt,
		OwnerID:     owner,
		CreatedAt:   time.Now().UTC(),
	}
	if err := a.food.insert(r.Context(), item); err != nil {
		a.log.Errorf("create food: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func (a *api) updateFoodHandler(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ID format")
		return
	}
	if a.ownedFood(w, r, id) == nil {
		return
	}
	var req foodRequest
	if json.NewDecoder(r.Body).Decode(&req) != nil {
		respondError(w, http.StatusBadRequest, "bad request")
		return
	}
	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	fields := bson.M{
		"title":       req.Title,
		"description": req.Description,
		"quantity":    req.Quantity,
		"category":    req.Category,
		"location":    req.Location,
		"image_url":   req.ImageURL,
		"expires_at":  req.ExpiresAt,
	}
	if err := a.food.update(r.Context(), id, fields); err != nil {
		a.log.Errorf("update food: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	updated, err := a.food.byID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (a *api) deleteFoodHandler(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ID format")
		return
	}
	if a.ownedFood(w, r, id) == nil {
		return
	}
	if err := a.food.delete(r.Context(), id); err != nil {
		a.log.Errorf("delete food: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "listing removed"})
}

// ownedFood loads the listing and checks that the authenticated user owns
// it. It writes the error response and returns nil when not.
func (a *api) ownedFood(w http.ResponseWriter, r *http.Request, id primitive.ObjectID) *Food {
	item, err := a.food.byID(r.Context(), id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respondError(w, http.StatusNotFound, "listing not found")
		return nil
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Server error")
		return nil
	}
	if item.OwnerID.Hex() != userIDFrom(r.Context()) {
		respondError(w, http.StatusForbidden, "not allowed")
		return nil
	}
	return item
}
