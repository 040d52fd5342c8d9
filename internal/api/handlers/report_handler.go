package handlers

import (
	"context"
	"net/http"

	"ihub-asset-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReportHandler struct {
	DB *mongo.Database
}

// GetTransactions handles GET /transactions with optional type and employeeId
// filters, newest first.
func (h *ReportHandler) GetTransactions(c *gin.Context) {
	filter := bson.M{}
	if txnType := c.Query("type"); txnType != "" {
		filter["type"] = txnType
	}
	if employeeID := c.Query("employeeId"); employeeID != "" {
		filter["employeeID"] = employeeID
	}
	if itemID := c.Query("inventoryItemId"); itemID != "" {
		filter["inventoryItemID"] = itemID
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := h.DB.Collection("transactions").Find(context.Background(), filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query transactions"})
		return
	}
	defer cursor.Close(context.Background())

	var txns []models.Transaction
	if err = cursor.All(context.Background(), &txns); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode transactions"})
		return
	}
	if txns == nil {
		txns = []models.Transaction{}
	}

	c.JSON(http.StatusOK, txns)
}

type statusCount struct {
	ID    string  `bson:"_id" json:"status"`
	Count int64   `bson:"count" json:"count"`
	Value float64 `bson:"value" json:"value"`
}

type categoryCount struct {
	ID    string  `bson:"_id" json:"category"`
	Count int64   `bson:"count" json:"count"`
	Value float64 `bson:"value" json:"value"`
}

// GetStockSummary handles GET /reports/stock-summary: counts and total asset
// value grouped by status and by category, plus asset types whose available
// count has fallen to or below their minimum stock level.
func (h *ReportHandler) GetStockSummary(c *gin.Context) {
	collection := h.DB.Collection("inventory_items")

	byStatusPipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
			"value": bson.M{"$sum": "$totalCost"},
		}}},
	}
	statusCursor, err := collection.Aggregate(context.Background(), byStatusPipeline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate by status"})
		return
	}
	var byStatus []statusCount
	if err = statusCursor.All(context.Background(), &byStatus); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode status aggregation"})
		return
	}

	byCategoryPipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$assetCategory",
			"count": bson.M{"$sum": 1},
			"value": bson.M{"$sum": "$totalCost"},
		}}},
	}
	categoryCursor, err := collection.Aggregate(context.Background(), byCategoryPipeline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate by category"})
		return
	}
	var byCategory []categoryCount
	if err = categoryCursor.All(context.Background(), &byCategory); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode category aggregation"})
		return
	}

	// Asset names whose available unit count is at or below the configured
	// minimum stock level of any of their units.
	lowStockPipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":      "$assetName",
			"minLevel": bson.M{"$max": "$minimumStockLevel"},
			"available": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$status", string(models.ItemAvailable)}}, 1, 0,
			}}},
		}}},
		{{Key: "$match", Value: bson.M{
			"minLevel": bson.M{"$gt": 0},
			"$expr":    bson.M{"$lte": bson.A{"$available", "$minLevel"}},
		}}},
	}
	lowCursor, err := collection.Aggregate(context.Background(), lowStockPipeline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate low stock"})
		return
	}
	var lowStock []bson.M
	if err = lowCursor.All(context.Background(), &lowStock); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode low stock aggregation"})
		return
	}
	if lowStock == nil {
		lowStock = []bson.M{}
	}

	c.JSON(http.StatusOK, gin.H{
		"byStatus":   byStatus,
		"byCategory": byCategory,
		"lowStock":   lowStock,
	})
}
