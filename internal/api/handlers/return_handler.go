package handlers

import (
	"context"
	"fmt"
	"net/http"
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

type ReturnHandler struct {
	DB  *mongo.Database
	Hub *socket.Hub
	Log *zap.Logger
}

type CreateReturnPayload struct {
	InventoryItemID   string `json:"inventoryItemId" binding:"required"` // the item's uniqueId
	ReturnReason      string `json:"returnReason" binding:"required"`
	ConditionOnReturn string `json:"conditionOnReturn" binding:"required"`
	Notes             string `json:"notes"`
}

// CreateReturnRequest handles POST /return-requests. The item must currently
// be issued to the caller, and only one pending return may exist per item -
// the partial unique index on return_requests is the authoritative guard, so
// a concurrent duplicate surfaces as a duplicate key error.
func (h *ReturnHandler) CreateReturnRequest(c *gin.Context) {
	employeeID := c.GetString("user_employee_id")
	employeeName := c.GetString("user_name")

	var payload CreateReturnPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	condition := models.ItemCondition(payload.ConditionOnReturn)
	if !models.ValidItemCondition(condition) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "conditionOnReturn must be one of excellent, good, fair, poor, damaged"})
		return
	}

	var item models.InventoryItem
	err := h.DB.Collection("inventory_items").FindOne(context.Background(),
		bson.M{"uniqueId": payload.InventoryItemID}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Inventory item not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve inventory item"})
		}
		return
	}

	if item.Status != models.ItemIssued || item.IssuedToID != employeeID {
		c.JSON(http.StatusConflict, gin.H{"error": "Item is not currently issued to you"})
		return
	}

	returnCollection := h.DB.Collection("return_requests")

	count, err := returnCollection.CountDocuments(context.Background(),
		bson.M{"inventoryItemID": payload.InventoryItemID, "status": models.StatusPending})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing return requests"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "A pending return request already exists for this item"})
		return
	}

	newReturn := models.ReturnRequest{
		ReturnID:          fmt.Sprintf("RET-%s", strings.ToUpper(uuid.New().String()[:8])),
		EmployeeID:        employeeID,
		EmployeeName:      employeeName,
		InventoryItemID:   payload.InventoryItemID,
		AssetName:         item.AssetName,
		ReturnReason:      payload.ReturnReason,
		ConditionOnReturn: condition,
		Notes:             payload.Notes,
		Status:            models.StatusPending,
		RequestedAt:       time.Now(),
	}

	result, err := returnCollection.InsertOne(context.Background(), newReturn)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "A pending return request already exists for this item"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create return request"})
		return
	}
	newReturn.ID = result.InsertedID.(primitive.ObjectID)

	h.Log.Info("return request submitted",
		zap.String("returnID", newReturn.ReturnID),
		zap.String("uniqueId", payload.InventoryItemID),
		zap.String("employeeID", employeeID))

	c.JSON(http.StatusCreated, newReturn)
}

// GetAllReturnRequests handles GET /return-requests, optionally by status.
func (h *ReturnHandler) GetAllReturnRequests(c *gin.Context) {
	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	cursor, err := h.DB.Collection("return_requests").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query return requests"})
		return
	}
	defer cursor.Close(context.Background())

	var returns []models.ReturnRequest
	if err = cursor.All(context.Background(), &returns); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode return requests"})
		return
	}
	if returns == nil {
		returns = []models.ReturnRequest{}
	}

	c.JSON(http.StatusOK, returns)
}

// GetMyReturnRequests handles GET /return-requests/my.
func (h *ReturnHandler) GetMyReturnRequests(c *gin.Context) {
	filter := bson.M{"employeeID": c.GetString("user_employee_id")}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	cursor, err := h.DB.Collection("return_requests").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query return requests"})
		return
	}
	defer cursor.Close(context.Background())

	var returns []models.ReturnRequest
	if err = cursor.All(context.Background(), &returns); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode return requests"})
		return
	}
	if returns == nil {
		returns = []models.ReturnRequest{}
	}

	c.JSON(http.StatusOK, returns)
}

// GetReturnRequestByID handles GET /return-requests/:id by business key.
func (h *ReturnHandler) GetReturnRequestByID(c *gin.Context) {
	returnID := c.Param("id")

	var ret models.ReturnRequest
	err := h.DB.Collection("return_requests").FindOne(context.Background(), bson.M{"returnID": returnID}).Decode(&ret)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Return request not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve return request"})
		}
		return
	}

	c.JSON(http.StatusOK, ret)
}

type ApproveReturnPayload struct {
	Remarks string `json:"remarks"`
}

// ApproveReturn handles PUT /return-requests/:id/approve: flips the return
// request pending -> approved, then conditionally reverts the item from
// issued to available. If the item was concurrently retired or deleted the
// return request is compensated back to pending and the caller gets a
// conflict.
func (h *ReturnHandler) ApproveReturn(c *gin.Context) {
	returnID := c.Param("id")
	reviewerID := c.GetString("user_employee_id")
	reviewerName := c.GetString("user_name")

	var payload ApproveReturnPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	returnCollection := h.DB.Collection("return_requests")
	itemCollection := h.DB.Collection("inventory_items")

	var ret models.ReturnRequest
	if err := returnCollection.FindOne(context.Background(), bson.M{"returnID": returnID}).Decode(&ret); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Return request not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve return request"})
		}
		return
	}
	if ret.Status.Terminal() {
		c.JSON(http.StatusConflict, gin.H{"error": "Return request already processed"})
		return
	}

	now := time.Now()

	atomicFilter := bson.M{"returnID": returnID, "status": models.StatusPending}
	returnUpdate := bson.M{
		"$set": bson.M{
			"status":          models.StatusApproved,
			"reviewedAt":      now,
			"reviewedBy":      reviewerID,
			"reviewerName":    reviewerName,
			"approvalRemarks": payload.Remarks,
		},
	}
	result, err := returnCollection.UpdateOne(context.Background(), atomicFilter, returnUpdate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update return request"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Return request already processed"})
		return
	}

	// Revert the unit, conditional on it still being issued to the returning
	// employee. The recorded condition on return becomes the item condition.
	itemFilter := bson.M{
		"uniqueId":   ret.InventoryItemID,
		"status":     models.ItemIssued,
		"issuedToID": ret.EmployeeID,
	}
	itemUpdate := bson.M{
		"$set": bson.M{
			"status":                 models.ItemAvailable,
			"condition":              ret.ConditionOnReturn,
			"balanceQuantityInStock": 1,
			"updatedAt":              now,
		},
		"$unset": bson.M{
			"issuedToID":         "",
			"issuedToName":       "",
			"dateOfIssue":        "",
			"expectedReturnDate": "",
		},
	}
	itemResult, err := itemCollection.UpdateOne(context.Background(), itemFilter, itemUpdate)
	if err != nil || itemResult.MatchedCount == 0 {
		// Item vanished or changed state under us; undo the approval.
		returnCollection.UpdateOne(context.Background(),
			bson.M{"returnID": returnID, "status": models.StatusApproved},
			bson.M{
				"$set":   bson.M{"status": models.StatusPending},
				"$unset": bson.M{"reviewedAt": "", "reviewedBy": "", "reviewerName": "", "approvalRemarks": ""},
			})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revert inventory item"})
		} else {
			c.JSON(http.StatusConflict, gin.H{"error": "Item is no longer issued to this employee"})
		}
		return
	}

	txn := models.Transaction{
		TransactionID:   fmt.Sprintf("TXN-%s", strings.ToUpper(uuid.New().String()[:8])),
		Type:            models.TxnReturn,
		InventoryItemID: ret.InventoryItemID,
		AssetName:       ret.AssetName,
		RequestID:       returnID,
		EmployeeID:      ret.EmployeeID,
		EmployeeName:    ret.EmployeeName,
		ReviewerID:      reviewerID,
		ReviewerName:    reviewerName,
		Remarks:         payload.Remarks,
		CreatedAt:       now,
	}
	if _, err := h.DB.Collection("transactions").InsertOne(context.Background(), txn); err != nil {
		h.Log.Error("failed to record return transaction",
			zap.String("returnID", returnID), zap.Error(err))
	}

	h.Hub.Notify(ret.EmployeeID, "return.approved", gin.H{
		"returnID":        returnID,
		"inventoryItemID": ret.InventoryItemID,
	})

	h.Log.Info("return request approved",
		zap.String("returnID", returnID),
		zap.String("uniqueId", ret.InventoryItemID),
		zap.String("reviewerID", reviewerID))

	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "Return approved; item is available again",
		"returnID":  returnID,
		"itemState": models.ItemAvailable,
	})
}

type RejectReturnPayload struct {
	RejectionReason string `json:"rejectionReason" binding:"required"`
}

// RejectReturn handles PUT /return-requests/:id/reject. The item stays
// issued; the employee may submit a new return request afterwards.
func (h *ReturnHandler) RejectReturn(c *gin.Context) {
	returnID := c.Param("id")
	reviewerID := c.GetString("user_employee_id")
	reviewerName := c.GetString("user_name")

	var payload RejectReturnPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	returnCollection := h.DB.Collection("return_requests")

	var ret models.ReturnRequest
	if err := returnCollection.FindOne(context.Background(), bson.M{"returnID": returnID}).Decode(&ret); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Return request not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve return request"})
		}
		return
	}

	atomicFilter := bson.M{"returnID": returnID, "status": models.StatusPending}
	update := bson.M{
		"$set": bson.M{
			"status":          models.StatusRejected,
			"reviewedAt":      time.Now(),
			"reviewedBy":      reviewerID,
			"reviewerName":    reviewerName,
			"rejectionReason": payload.RejectionReason,
		},
	}
	result, err := returnCollection.UpdateOne(context.Background(), atomicFilter, update)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject return request"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Return request already processed"})
		return
	}

	h.Hub.Notify(ret.EmployeeID, "return.rejected", gin.H{
		"returnID":        returnID,
		"rejectionReason": payload.RejectionReason,
	})

	h.Log.Info("return request rejected",
		zap.String("returnID", returnID), zap.String("reviewerID", reviewerID))

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Return request rejected"})
}
