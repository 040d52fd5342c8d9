package handlers

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ihub-asset-api-server/config"
	"ihub-asset-api-server/internal/assetid"
	"ihub-asset-api-server/internal/counter"
	"ihub-asset-api-server/internal/models"
	"ihub-asset-api-server/internal/s3"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	DB       *mongo.Database
	Serial   *counter.Serial
	Uploader *s3.Uploader
	Cfg      config.Config
	Log      *zap.Logger
}

// ItemPayload is the wire shape for creating an inventory item. Validation is
// done by validateItemPayload rather than binding tags so bulk rows can fail
// individually without aborting the batch.
type ItemPayload struct {
	UniqueID            string  `json:"uniqueId"` // optional; explicit ID or the AUTO sentinel
	ProductSerialNumber string  `json:"productSerialNumber"`
	CategoryType        string  `json:"categoryType"`
	AssetCategory       string  `json:"assetCategory"`
	AssetName           string  `json:"assetName"`
	Vendor              string  `json:"vendor"`
	FinancialYear       string  `json:"financialYear"`
	RateInclusiveTax    float64 `json:"rateInclusiveTax"`
	DepreciationMethod  string  `json:"depreciationMethod"`
	UsefulLifeYears     int     `json:"usefulLifeYears"`
	SalvageValue        float64 `json:"salvageValue"`
	AnnualMgmtCharge    float64 `json:"annualManagementCharge"`
	Location            string  `json:"location"`
	Condition           string  `json:"condition"`
	MinimumStockLevel   int     `json:"minimumStockLevel"`
}

// validateItemPayload checks the required fields of one item row. The error
// message names every missing component so the client can render field-level
// errors.
func validateItemPayload(p ItemPayload) error {
	var missing []string
	if strings.TrimSpace(p.AssetCategory) == "" {
		missing = append(missing, "assetCategory")
	}
	if strings.TrimSpace(p.AssetName) == "" {
		missing = append(missing, "assetName")
	}
	if strings.TrimSpace(p.Vendor) == "" {
		missing = append(missing, "vendor")
	}
	if strings.TrimSpace(p.Location) == "" {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	// The location and financial year become identifier segments, so inputs
	// that would corrupt the segment structure are rejected up front.
	if err := assetid.ValidateLocation(p.Location); err != nil {
		return err
	}
	if p.FinancialYear != "" {
		if err := assetid.ValidateFinancialYear(p.FinancialYear); err != nil {
			return err
		}
	}

	if p.RateInclusiveTax <= 0 {
		return fmt.Errorf("rateInclusiveTax must be greater than zero")
	}
	if p.CategoryType != "" && !((models.CategoryType(p.CategoryType) == models.CategoryMajor) || (models.CategoryType(p.CategoryType) == models.CategoryMinor)) {
		return fmt.Errorf("categoryType must be 'major' or 'minor'")
	}
	if p.Condition != "" && !models.ValidItemCondition(models.ItemCondition(p.Condition)) {
		return fmt.Errorf("condition must be one of excellent, good, fair, poor, damaged")
	}
	if p.UniqueID != "" && !assetid.HasAutoSerial(p.UniqueID) {
		if err := assetid.Validate(p.UniqueID); err != nil {
			return err
		}
	}
	return nil
}

// insertItem assigns the authoritative uniqueId and persists one unit record.
// The serial increment and the insert both happen server-side, so two
// concurrent creations can never share a serial; a client-forced explicit
// uniqueId that collides surfaces as a duplicate key error.
func (h *InventoryHandler) insertItem(ctx context.Context, p ItemPayload) (*models.InventoryItem, error) {
	fy := strings.TrimSpace(p.FinancialYear)
	if fy == "" {
		fy = h.Cfg.Asset.FinancialYear
	}

	var uniqueID string
	var serial int64
	if p.UniqueID != "" && !assetid.HasAutoSerial(p.UniqueID) {
		// Explicit ID forced by the client: the server honors it but the
		// unique index has the final word.
		uniqueID = p.UniqueID
		if s, err := assetid.Serial(p.UniqueID); err == nil {
			serial, _ = strconv.ParseInt(s, 10, 64)
		}
	} else {
		n, err := h.Serial.Next(ctx)
		if err != nil {
			return nil, err
		}
		serial = n
		uniqueID = assetid.Compose(fy, p.AssetName, p.Location, n)
	}
	if err := assetid.Validate(uniqueID); err != nil {
		return nil, err
	}

	condition := models.ItemCondition(p.Condition)
	if condition == "" {
		condition = models.ConditionExcellent
	}

	now := time.Now()
	item := models.InventoryItem{
		UniqueID:               uniqueID,
		ProductSerialNumber:    strings.TrimSpace(p.ProductSerialNumber),
		Serial:                 serial,
		CategoryType:           models.CategoryType(p.CategoryType),
		AssetCategory:          p.AssetCategory,
		AssetName:              p.AssetName,
		Vendor:                 p.Vendor,
		FinancialYear:          fy,
		RateInclusiveTax:       p.RateInclusiveTax,
		TotalCost:              p.RateInclusiveTax, // quantity fixed at 1 per unit record
		DepreciationMethod:     p.DepreciationMethod,
		UsefulLifeYears:        p.UsefulLifeYears,
		SalvageValue:           p.SalvageValue,
		AnnualManagementCharge: p.AnnualMgmtCharge,
		Location:               p.Location,
		Status:                 models.ItemAvailable,
		Condition:              condition,
		BalanceQuantityInStock: 1,
		MinimumStockLevel:      p.MinimumStockLevel,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	result, err := h.DB.Collection("inventory_items").InsertOne(ctx, item)
	if err != nil {
		return nil, err
	}
	item.ID = result.InsertedID.(primitive.ObjectID)
	return &item, nil
}

// CreateItem handles POST /inventory.
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var payload ItemPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateItemPayload(payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.insertItem(context.Background(), payload)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "uniqueId already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create inventory item"})
		return
	}

	h.Log.Info("inventory item created",
		zap.String("uniqueId", item.UniqueID),
		zap.String("assetName", item.AssetName))
	c.JSON(http.StatusCreated, item)
}

type BulkCreatePayload struct {
	Items []ItemPayload `json:"items" binding:"required"`
}

// BulkRowError reports one failed row of a bulk upload.
type BulkRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// BulkCreateItems handles POST /inventory/bulk. Rows are validated and
// inserted independently; a failing row is reported with its row number and
// does not abort the rest of the batch.
func (h *InventoryHandler) BulkCreateItems(c *gin.Context) {
	var payload BulkCreatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(payload.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "items must not be empty"})
		return
	}

	created := []models.InventoryItem{}
	rowErrors := []BulkRowError{}

	for i, row := range payload.Items {
		if err := validateItemPayload(row); err != nil {
			rowErrors = append(rowErrors, BulkRowError{Row: i + 1, Error: err.Error()})
			continue
		}

		item, err := h.insertItem(context.Background(), row)
		if err != nil {
			msg := "failed to insert item"
			if mongo.IsDuplicateKeyError(err) {
				msg = "uniqueId already exists"
			}
			rowErrors = append(rowErrors, BulkRowError{Row: i + 1, Error: msg})
			continue
		}
		created = append(created, *item)
	}

	h.Log.Info("bulk inventory upload processed",
		zap.Int("created", len(created)), zap.Int("failed", len(rowErrors)))

	c.JSON(http.StatusCreated, gin.H{
		"created": created,
		"errors":  rowErrors,
	})
}

// buildInventoryFilter translates list query parameters into a Mongo filter.
// The free-text search matches name, vendor, category and uniqueId
// case-insensitively.
func buildInventoryFilter(status, category, location, search string) bson.M {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	if category != "" {
		filter["assetCategory"] = category
	}
	if location != "" {
		filter["location"] = location
	}
	if search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		filter["$or"] = []bson.M{
			{"assetName": re},
			{"vendor": re},
			{"assetCategory": re},
			{"uniqueId": re},
		}
	}
	return filter
}

// GetAllItems handles GET /inventory with optional status, category, location,
// search, page and limit parameters.
func (h *InventoryHandler) GetAllItems(c *gin.Context) {
	filter := buildInventoryFilter(
		c.Query("status"),
		c.Query("category"),
		c.Query("location"),
		c.Query("search"),
	)

	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 50
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	collection := h.DB.Collection("inventory_items")
	cursor, err := collection.Find(context.Background(), filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query inventory items"})
		return
	}
	defer cursor.Close(context.Background())

	var items []models.InventoryItem
	if err = cursor.All(context.Background(), &items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode inventory items"})
		return
	}
	if items == nil {
		items = []models.InventoryItem{}
	}

	total, err := collection.CountDocuments(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count inventory items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetNextSerialPreview handles GET /inventory/next-serial-preview. The value
// is advisory; the serial actually stored is assigned atomically at insert
// time and may differ if another creation completes first.
func (h *InventoryHandler) GetNextSerialPreview(c *gin.Context) {
	next, err := h.Serial.Peek(context.Background())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read serial counter"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"serial":    next,
		"formatted": assetid.FormatSerial(next),
	})
}

// GetItemByID handles GET /inventory/:id, where :id is the document ObjectID.
func (h *InventoryHandler) GetItemByID(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}

	var item models.InventoryItem
	err = h.DB.Collection("inventory_items").FindOne(context.Background(), bson.M{"_id": oid}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Inventory item not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve inventory item"})
		}
		return
	}

	c.JSON(http.StatusOK, item)
}

// UpdateItemPayload carries the patchable fields. Status is deliberately
// excluded: status moves through the workflows or the dedicated status
// endpoint, never a plain update.
type UpdateItemPayload struct {
	ProductSerialNumber *string  `json:"productSerialNumber"`
	AssetCategory       *string  `json:"assetCategory"`
	AssetName           *string  `json:"assetName"`
	Vendor              *string  `json:"vendor"`
	RateInclusiveTax    *float64 `json:"rateInclusiveTax"`
	DepreciationMethod  *string  `json:"depreciationMethod"`
	UsefulLifeYears     *int     `json:"usefulLifeYears"`
	SalvageValue        *float64 `json:"salvageValue"`
	AnnualMgmtCharge    *float64 `json:"annualManagementCharge"`
	Location            *string  `json:"location"`
	Condition           *string  `json:"condition"`
	MinimumStockLevel   *int     `json:"minimumStockLevel"`
}

// UpdateItem handles PUT /inventory/:id. A location change rewrites only the
// location segment of the uniqueId; year, asset code and serial never change
// once assigned.
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}

	var payload UpdateItemPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := h.DB.Collection("inventory_items")

	var item models.InventoryItem
	if err := collection.FindOne(context.Background(), bson.M{"_id": oid}).Decode(&item); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Inventory item not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve inventory item"})
		}
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if payload.ProductSerialNumber != nil {
		set["productSerialNumber"] = *payload.ProductSerialNumber
	}
	if payload.AssetCategory != nil {
		set["assetCategory"] = *payload.AssetCategory
	}
	if payload.AssetName != nil {
		set["assetName"] = *payload.AssetName
	}
	if payload.Vendor != nil {
		set["vendor"] = *payload.Vendor
	}
	if payload.RateInclusiveTax != nil {
		if *payload.RateInclusiveTax <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rateInclusiveTax must be greater than zero"})
			return
		}
		set["rateInclusiveTax"] = *payload.RateInclusiveTax
		set["totalCost"] = *payload.RateInclusiveTax
	}
	if payload.DepreciationMethod != nil {
		set["depreciationMethod"] = *payload.DepreciationMethod
	}
	if payload.UsefulLifeYears != nil {
		set["usefulLifeYears"] = *payload.UsefulLifeYears
	}
	if payload.SalvageValue != nil {
		set["salvageValue"] = *payload.SalvageValue
	}
	if payload.AnnualMgmtCharge != nil {
		set["annualManagementCharge"] = *payload.AnnualMgmtCharge
	}
	if payload.MinimumStockLevel != nil {
		set["minimumStockLevel"] = *payload.MinimumStockLevel
	}
	if payload.Condition != nil {
		if !models.ValidItemCondition(models.ItemCondition(*payload.Condition)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "condition must be one of excellent, good, fair, poor, damaged"})
			return
		}
		set["condition"] = *payload.Condition
	}
	if payload.Location != nil && *payload.Location != item.Location {
		newID, err := assetid.ReplaceLocation(item.UniqueID, *payload.Location)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		set["location"] = *payload.Location
		set["uniqueId"] = newID
	}

	if _, err := collection.UpdateOne(context.Background(), bson.M{"_id": oid}, bson.M{"$set": set}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update inventory item"})
		return
	}

	var updated models.InventoryItem
	if err := collection.FindOne(context.Background(), bson.M{"_id": oid}).Decode(&updated); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve updated item"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

type UpdateStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

// UpdateItemStatus handles PUT /inventory/:id/status for operational moves:
// available <-> maintenance and available/maintenance -> retired. Issuing and
// un-issuing go through the request and return workflows only.
func (h *InventoryHandler) UpdateItemStatus(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}

	var payload UpdateStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target := models.ItemStatus(payload.Status)
	if !models.ValidItemStatus(target) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of available, issued, maintenance, retired"})
		return
	}
	if target == models.ItemIssued {
		c.JSON(http.StatusConflict, gin.H{"error": "Items are issued through the request workflow, not a status update"})
		return
	}

	// Guarded transition: only non-issued items move here, so a concurrently
	// approved issuance cannot be clobbered.
	atomicFilter := bson.M{"_id": oid, "status": bson.M{"$ne": string(models.ItemIssued)}}
	update := bson.M{
		"$set": bson.M{
			"status":                 target,
			"balanceQuantityInStock": boolToStock(target == models.ItemAvailable),
			"updatedAt":              time.Now(),
		},
		"$unset": bson.M{
			"issuedToID":         "",
			"issuedToName":       "",
			"dateOfIssue":        "",
			"expectedReturnDate": "",
		},
	}

	result, err := h.DB.Collection("inventory_items").UpdateOne(context.Background(), atomicFilter, update)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item status"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Item is issued or does not exist; return it before changing status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Item status updated to " + payload.Status})
}

func boolToStock(available bool) int {
	if available {
		return 1
	}
	return 0
}

// DeleteItem handles DELETE /inventory/:id. Deletion is blocked while the
// item is issued or referenced by a pending return request.
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}

	collection := h.DB.Collection("inventory_items")

	var item models.InventoryItem
	if err := collection.FindOne(context.Background(), bson.M{"_id": oid}).Decode(&item); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Inventory item not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve inventory item"})
		}
		return
	}

	if item.Status == models.ItemIssued {
		c.JSON(http.StatusConflict, gin.H{"error": "Item is currently issued and cannot be deleted"})
		return
	}

	pendingReturns, err := h.DB.Collection("return_requests").CountDocuments(context.Background(),
		bson.M{"inventoryItemID": item.UniqueID, "status": models.StatusPending})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check return requests"})
		return
	}
	if pendingReturns > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Item has a pending return request and cannot be deleted"})
		return
	}

	// The status read above can go stale; the delete itself re-checks it so
	// an item issued in between the two calls survives.
	res, err := collection.DeleteOne(context.Background(),
		bson.M{"_id": oid, "status": bson.M{"$ne": models.ItemIssued}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete inventory item"})
		return
	}
	if res.DeletedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Item is currently issued and cannot be deleted"})
		return
	}

	h.Log.Info("inventory item deleted", zap.String("uniqueId", item.UniqueID))
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Inventory item deleted"})
}

// GetMyIssuedItems handles GET /inventory/my-issued: the authenticated
// employee's currently issued items, flagged with any pending return so the
// client can hide the return action.
func (h *InventoryHandler) GetMyIssuedItems(c *gin.Context) {
	employeeID := c.GetString("user_employee_id")

	cursor, err := h.DB.Collection("inventory_items").Find(context.Background(),
		bson.M{"issuedToID": employeeID, "status": models.ItemIssued})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query issued items"})
		return
	}
	defer cursor.Close(context.Background())

	var items []models.InventoryItem
	if err = cursor.All(context.Background(), &items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode issued items"})
		return
	}
	if items == nil {
		items = []models.InventoryItem{}
	}

	// Mark items that already have a pending return request.
	pending := map[string]bool{}
	if len(items) > 0 {
		ids := make([]string, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.UniqueID)
		}
		retCursor, err := h.DB.Collection("return_requests").Find(context.Background(),
			bson.M{"inventoryItemID": bson.M{"$in": ids}, "status": models.StatusPending})
		if err == nil {
			var returns []models.ReturnRequest
			if retCursor.All(context.Background(), &returns) == nil {
				for _, r := range returns {
					pending[r.InventoryItemID] = true
				}
			}
			retCursor.Close(context.Background())
		}
	}

	type issuedItem struct {
		models.InventoryItem
		HasPendingReturn bool `json:"hasPendingReturn"`
	}
	out := make([]issuedItem, 0, len(items))
	for _, it := range items {
		out = append(out, issuedItem{InventoryItem: it, HasPendingReturn: pending[it.UniqueID]})
	}

	c.JSON(http.StatusOK, out)
}

// GetItemValuation handles GET /inventory/:id/valuation with a straight-line
// book value as of now.
func (h *InventoryHandler) GetItemValuation(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}

	var item models.InventoryItem
	err = h.DB.Collection("inventory_items").FindOne(context.Background(), bson.M{"_id": oid}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Inventory item not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve inventory item"})
		}
		return
	}

	c.JSON(http.StatusOK, item.BookValue(time.Now()))
}

// UploadAttachment handles POST /inventory/:id/attachments: a multipart file
// stored on S3 and appended to the item's attachment list.
func (h *InventoryHandler) UploadAttachment(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A 'file' form field is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open uploaded file"})
		return
	}
	defer file.Close()

	objectKey := fmt.Sprintf("attachments/%s/%s-%s", oid.Hex(), uuid.New().String()[:8], fileHeader.Filename)
	url, err := h.Uploader.UploadFile(context.Background(), file, objectKey, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload attachment"})
		return
	}

	attachment := models.Attachment{Name: fileHeader.Filename, URL: url}
	result, err := h.DB.Collection("inventory_items").UpdateOne(context.Background(),
		bson.M{"_id": oid},
		bson.M{
			"$push": bson.M{"attachments": attachment},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record attachment"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Inventory item not found"})
		return
	}

	c.JSON(http.StatusCreated, attachment)
}
