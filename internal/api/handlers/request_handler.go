package handlers

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"ihub-asset-api-server/internal/models"
	"ihub-asset-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type RequestHandler struct {
	DB  *mongo.Database
	Hub *socket.Hub
	Log *zap.Logger
}

type CreateRequestPayload struct {
	ItemType      string `json:"itemType" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required,min=1"`
	Purpose       string `json:"purpose" binding:"required"`
	Justification string `json:"justification"`
}

// CreateRequest handles POST /requests. The requester's identity comes from
// the JWT, never the body. No inventory side effect happens here.
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	employeeID := c.GetString("user_employee_id")
	employeeName := c.GetString("user_name")

	var payload CreateRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newRequest := models.Request{
		RequestID:     fmt.Sprintf("REQ-%s", strings.ToUpper(uuid.New().String()[:8])),
		EmployeeID:    employeeID,
		EmployeeName:  employeeName,
		ItemType:      payload.ItemType,
		Quantity:      payload.Quantity,
		Purpose:       payload.Purpose,
		Justification: payload.Justification,
		Status:        models.StatusPending,
		SubmittedAt:   time.Now(),
	}

	collection := h.DB.Collection("requests")
	result, err := collection.InsertOne(context.Background(), newRequest)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create request"})
		return
	}
	newRequest.ID = result.InsertedID.(primitive.ObjectID)

	h.Log.Info("asset request submitted",
		zap.String("requestID", newRequest.RequestID),
		zap.String("employeeID", employeeID),
		zap.String("itemType", payload.ItemType))

	c.JSON(http.StatusCreated, newRequest)
}

// GetAllRequests handles GET /requests, optionally filtered by status.
func (h *RequestHandler) GetAllRequests(c *gin.Context) {
	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	collection := h.DB.Collection("requests")
	cursor, err := collection.Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query requests"})
		return
	}
	defer cursor.Close(context.Background())

	var requests []models.Request
	if err = cursor.All(context.Background(), &requests); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode requests"})
		return
	}
	if requests == nil {
		requests = []models.Request{}
	}

	c.JSON(http.StatusOK, requests)
}

// GetMyRequests handles GET /requests/my for the authenticated employee.
func (h *RequestHandler) GetMyRequests(c *gin.Context) {
	filter := bson.M{"employeeID": c.GetString("user_employee_id")}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	collection := h.DB.Collection("requests")
	cursor, err := collection.Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query requests"})
		return
	}
	defer cursor.Close(context.Background())

	var requests []models.Request
	if err = cursor.All(context.Background(), &requests); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode requests"})
		return
	}
	if requests == nil {
		requests = []models.Request{}
	}

	c.JSON(http.StatusOK, requests)
}

// GetRequestByID handles GET /requests/:id by business key.
func (h *RequestHandler) GetRequestByID(c *gin.Context) {
	requestID := c.Param("id")

	var request models.Request
	err := h.DB.Collection("requests").FindOne(context.Background(), bson.M{"requestID": requestID}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve request"})
		}
		return
	}

	c.JSON(http.StatusOK, request)
}

type ApproveRequestPayload struct {
	Remarks            string     `json:"remarks"`
	InventoryItemID    string     `json:"inventoryItemId"` // uniqueId; empty means auto-allocate
	ApprovedQuantity   int        `json:"approvedQuantity"`
	ExpectedReturnDate *time.Time `json:"expectedReturnDate"`
}

// ApproveRequest handles PUT /requests/:id/approve.
//
// The contended resource is the inventory item, so the issuance is a single
// conditional update on status "available" - two concurrent approvals of the
// same unit cannot both succeed. The request flip is likewise conditional on
// "pending"; if it loses (the request was processed concurrently) the item
// update is compensated back to available.
func (h *RequestHandler) ApproveRequest(c *gin.Context) {
	requestID := c.Param("id")
	reviewerID := c.GetString("user_employee_id")
	reviewerName := c.GetString("user_name")

	var payload ApproveRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	requestCollection := h.DB.Collection("requests")
	itemCollection := h.DB.Collection("inventory_items")

	var request models.Request
	if err := requestCollection.FindOne(context.Background(), bson.M{"requestID": requestID}).Decode(&request); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve request"})
		}
		return
	}
	if request.Status.Terminal() {
		c.JSON(http.StatusConflict, gin.H{"error": "Request already processed"})
		return
	}

	// Select the unit: the reviewer's explicit choice, or the first available
	// item whose asset name matches the requested type (case-insensitive
	// exact match).
	itemFilter := bson.M{"status": models.ItemAvailable}
	if payload.InventoryItemID != "" {
		itemFilter["uniqueId"] = payload.InventoryItemID
	} else {
		itemFilter["assetName"] = primitive.Regex{
			Pattern: "^" + regexp.QuoteMeta(request.ItemType) + "$",
			Options: "i",
		}
	}

	now := time.Now()
	issueUpdate := bson.M{
		"$set": bson.M{
			"status":                 models.ItemIssued,
			"issuedToID":             request.EmployeeID,
			"issuedToName":           request.EmployeeName,
			"dateOfIssue":            now,
			"balanceQuantityInStock": 0,
			"updatedAt":              now,
		},
	}
	if payload.ExpectedReturnDate != nil {
		issueUpdate["$set"].(bson.M)["expectedReturnDate"] = *payload.ExpectedReturnDate
	}

	var issuedItem models.InventoryItem
	err := itemCollection.FindOneAndUpdate(context.Background(), itemFilter, issueUpdate).Decode(&issuedItem)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			if payload.InventoryItemID != "" {
				c.JSON(http.StatusConflict, gin.H{"error": "Selected item is already issued or does not exist"})
			} else {
				c.JSON(http.StatusNotFound, gin.H{"error": "No available item matches the requested asset; insufficient stock"})
			}
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue inventory item"})
		return
	}

	approvedQuantity := payload.ApprovedQuantity
	if approvedQuantity <= 0 {
		approvedQuantity = 1
	}

	atomicFilter := bson.M{"requestID": requestID, "status": models.StatusPending}
	requestUpdate := bson.M{
		"$set": bson.M{
			"status":           models.StatusApproved,
			"reviewedAt":       now,
			"reviewedBy":       reviewerID,
			"reviewerName":     reviewerName,
			"remarks":          payload.Remarks,
			"inventoryItemID":  issuedItem.UniqueID,
			"approvedQuantity": approvedQuantity,
		},
	}
	updateResult, err := requestCollection.UpdateOne(context.Background(), atomicFilter, requestUpdate)
	if err != nil || updateResult.MatchedCount == 0 {
		// The request was processed by a concurrent reviewer; put the unit back.
		itemCollection.UpdateOne(context.Background(),
			bson.M{"uniqueId": issuedItem.UniqueID, "status": models.ItemIssued, "issuedToID": request.EmployeeID},
			bson.M{
				"$set":   bson.M{"status": models.ItemAvailable, "balanceQuantityInStock": 1, "updatedAt": time.Now()},
				"$unset": bson.M{"issuedToID": "", "issuedToName": "", "dateOfIssue": "", "expectedReturnDate": ""},
			})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update request"})
		} else {
			c.JSON(http.StatusConflict, gin.H{"error": "Request already processed"})
		}
		return
	}

	txn := models.Transaction{
		TransactionID:   fmt.Sprintf("TXN-%s", strings.ToUpper(uuid.New().String()[:8])),
		Type:            models.TxnIssue,
		InventoryItemID: issuedItem.UniqueID,
		AssetName:       issuedItem.AssetName,
		RequestID:       requestID,
		EmployeeID:      request.EmployeeID,
		EmployeeName:    request.EmployeeName,
		ReviewerID:      reviewerID,
		ReviewerName:    reviewerName,
		Remarks:         payload.Remarks,
		CreatedAt:       now,
	}
	if _, err := h.DB.Collection("transactions").InsertOne(context.Background(), txn); err != nil {
		h.Log.Error("failed to record issuance transaction",
			zap.String("requestID", requestID), zap.Error(err))
	}

	h.Hub.Notify(request.EmployeeID, "request.approved", gin.H{
		"requestID":       requestID,
		"inventoryItemID": issuedItem.UniqueID,
		"assetName":       issuedItem.AssetName,
	})

	h.Log.Info("asset request approved",
		zap.String("requestID", requestID),
		zap.String("uniqueId", issuedItem.UniqueID),
		zap.String("reviewerID", reviewerID))

	c.JSON(http.StatusOK, gin.H{
		"status":          "success",
		"message":         "Request approved and item issued",
		"requestID":       requestID,
		"inventoryItemID": issuedItem.UniqueID,
	})
}

type RejectRequestPayload struct {
	RejectionReason string `json:"rejectionReason" binding:"required"`
}

// RejectRequest handles PUT /requests/:id/reject. No inventory effect.
func (h *RequestHandler) RejectRequest(c *gin.Context) {
	requestID := c.Param("id")
	reviewerID := c.GetString("user_employee_id")
	reviewerName := c.GetString("user_name")

	var payload RejectRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := h.DB.Collection("requests")

	var request models.Request
	if err := collection.FindOne(context.Background(), bson.M{"requestID": requestID}).Decode(&request); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve request"})
		}
		return
	}

	atomicFilter := bson.M{"requestID": requestID, "status": models.StatusPending}
	update := bson.M{
		"$set": bson.M{
			"status":          models.StatusRejected,
			"reviewedAt":      time.Now(),
			"reviewedBy":      reviewerID,
			"reviewerName":    reviewerName,
			"rejectionReason": payload.RejectionReason,
		},
	}
	result, err := collection.UpdateOne(context.Background(), atomicFilter, update)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject request"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Request already processed"})
		return
	}

	h.Hub.Notify(request.EmployeeID, "request.rejected", gin.H{
		"requestID":       requestID,
		"rejectionReason": payload.RejectionReason,
	})

	h.Log.Info("asset request rejected",
		zap.String("requestID", requestID), zap.String("reviewerID", reviewerID))

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Request rejected"})
}
