package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"ihub-asset-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"
)

// These tests drive the approval and return state machines against a mock
// Mongo deployment, scripting the command responses the conditional updates
// would see under concurrent reviewers.

func newMockWorkflowRouter(db *mongo.Database) *gin.Engine {
	gin.SetMode(gin.TestMode)

	rh := &RequestHandler{DB: db, Hub: socket.NewHub(zap.NewNop()), Log: zap.NewNop()}
	reth := &ReturnHandler{DB: db, Hub: socket.NewHub(zap.NewNop()), Log: zap.NewNop()}

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_employee_id", "EMP-12345678")
		c.Set("user_name", "Test Employee")
		c.Next()
	})
	router.PUT("/requests/:id/approve", rh.ApproveRequest)
	router.PUT("/requests/:id/reject", rh.RejectRequest)
	router.POST("/return-requests", reth.CreateReturnRequest)
	router.PUT("/return-requests/:id/approve", reth.ApproveReturn)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func requestDoc(requestID, status string) bson.D {
	return bson.D{
		{Key: "requestID", Value: requestID},
		{Key: "employeeID", Value: "EMP-12345678"},
		{Key: "employeeName", Value: "Test Employee"},
		{Key: "itemType", Value: "Laptop"},
		{Key: "quantity", Value: 1},
		{Key: "purpose", Value: "Development work"},
		{Key: "status", Value: status},
	}
}

func issuedItemDoc(uniqueID, status, issuedToID string) bson.D {
	return bson.D{
		{Key: "uniqueId", Value: uniqueID},
		{Key: "assetName", Value: "Laptop"},
		{Key: "status", Value: status},
		{Key: "issuedToID", Value: issuedToID},
	}
}

func returnDoc(returnID, status string) bson.D {
	return bson.D{
		{Key: "returnID", Value: returnID},
		{Key: "employeeID", Value: "EMP-12345678"},
		{Key: "employeeName", Value: "Test Employee"},
		{Key: "inventoryItemID", Value: "IHUB/2024-25/LAP/STORE/007"},
		{Key: "assetName", Value: "Laptop"},
		{Key: "returnReason", Value: "Project ended"},
		{Key: "conditionOnReturn", Value: "good"},
		{Key: "status", Value: status},
	}
}

func TestApproveRequest_StateMachine(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("already approved request conflicts", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "ihub.requests", mtest.FirstBatch,
				requestDoc("REQ-AAAA1111", "approved")),
		)

		w := doJSON(newMockWorkflowRouter(mt.DB), http.MethodPut, "/requests/REQ-AAAA1111/approve", `{}`)

		assert.Equal(mt, http.StatusConflict, w.Code)
		assert.Contains(mt, w.Body.String(), "already processed")
	})

	mt.Run("explicitly selected unit already issued", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "ihub.requests", mtest.FirstBatch,
				requestDoc("REQ-AAAA1111", "pending")),
			// findAndModify finds no document matching status "available":
			// a concurrent approval already issued the unit.
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
		)

		w := doJSON(newMockWorkflowRouter(mt.DB), http.MethodPut, "/requests/REQ-AAAA1111/approve",
			`{"inventoryItemId":"IHUB/2024-25/LAP/STORE/007"}`)

		assert.Equal(mt, http.StatusConflict, w.Code)
		assert.Contains(mt, w.Body.String(), "already issued")
	})

	mt.Run("losing the request flip compensates the issued unit", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "ihub.requests", mtest.FirstBatch,
				requestDoc("REQ-AAAA1111", "pending")),
			// The unit is issued first...
			mtest.CreateSuccessResponse(bson.E{Key: "value",
				Value: issuedItemDoc("IHUB/2024-25/LAP/STORE/007", "available", "")}),
			// ...but the pending->approved flip matches nothing: a second
			// reviewer processed the request in between.
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			// compensating revert of the unit
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		w := doJSON(newMockWorkflowRouter(mt.DB), http.MethodPut, "/requests/REQ-AAAA1111/approve", `{}`)

		assert.Equal(mt, http.StatusConflict, w.Code)
		assert.Contains(mt, w.Body.String(), "already processed")
	})

	mt.Run("winning approval issues the unit", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "ihub.requests", mtest.FirstBatch,
				requestDoc("REQ-AAAA1111", "pending")),
			mtest.CreateSuccessResponse(bson.E{Key: "value",
				Value: issuedItemDoc("IHUB/2024-25/LAP/STORE/007", "available", "")}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			// issuance transaction insert
			mtest.CreateSuccessResponse(),
		)

		w := doJSON(newMockWorkflowRouter(mt.DB), http.MethodPut, "/requests/REQ-AAAA1111/approve", `{}`)

		assert.Equal(mt, http.StatusOK, w.Code)
		assert.Contains(mt, w.Body.String(), "IHUB/2024-25/LAP/STORE/007")
	})
}

func TestRejectRequest_AlreadyProcessedConflicts(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("conditional flip matches nothing", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "ihub.requests", mtest.FirstBatch,
				requestDoc("REQ-AAAA1111", "pending")),
			// Processed between the read and the conditional update.
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
		)

		w := doJSON(newMockWorkflowRouter(mt.DB), http.MethodPut, "/requests/REQ-AAAA1111/reject",
			`{"rejectionReason":"Out of budget"}`)

		assert.Equal(mt, http.StatusConflict, w.Code)
		assert.Contains(mt, w.Body.String(), "already processed")
	})
}

func TestCreateReturnRequest_SinglePendingPerItem(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	body := `{"inventoryItemId":"IHUB/2024-25/LAP/STORE/007","returnReason":"Project ended","conditionOnReturn":"good"}`

	mt.Run("existing pending return conflicts", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "ihub.inventory_items", mtest.FirstBatch,
				issuedItemDoc("IHUB/2024-25/LAP/STORE/007", "issued", "EMP-12345678")),
			// count aggregation over pending returns for this item
			mtest.CreateCursorResponse(0, "ihub.return_requests", mtest.FirstBatch,
				bson.D{{Key: "n", Value: int64(1)}}),
		)

		w := doJSON(newMockWorkflowRouter(mt.DB), http.MethodPost, "/return-requests", body)

		assert.Equal(mt, http.StatusConflict, w.Code)
		assert.Contains(mt, w.Body.String(), "pending return request already exists")
	})

	mt.Run("index rejects the racing duplicate", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "ihub.inventory_items", mtest.FirstBatch,
				issuedItemDoc("IHUB/2024-25/LAP/STORE/007", "issued", "EMP-12345678")),
			// nothing pending yet at check time
			mtest.CreateCursorResponse(0, "ihub.return_requests", mtest.FirstBatch),
			// the partial unique index catches the insert racing another one
			mtest.CreateWriteErrorsResponse(mtest.WriteError{
				Index:   0,
				Code:    11000,
				Message: "E11000 duplicate key error",
			}),
		)

		w := doJSON(newMockWorkflowRouter(mt.DB), http.MethodPost, "/return-requests", body)

		assert.Equal(mt, http.StatusConflict, w.Code)
		assert.Contains(mt, w.Body.String(), "pending return request already exists")
	})

	mt.Run("item issued to someone else conflicts", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "ihub.inventory_items", mtest.FirstBatch,
				issuedItemDoc("IHUB/2024-25/LAP/STORE/007", "issued", "EMP-99999999")),
		)

		w := doJSON(newMockWorkflowRouter(mt.DB), http.MethodPost, "/return-requests", body)

		assert.Equal(mt, http.StatusConflict, w.Code)
		assert.Contains(mt, w.Body.String(), "not currently issued to you")
	})
}

func TestApproveReturn_StateMachine(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("already approved return conflicts", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "ihub.return_requests", mtest.FirstBatch,
				returnDoc("RET-BBBB2222", "approved")),
		)

		w := doJSON(newMockWorkflowRouter(mt.DB), http.MethodPut, "/return-requests/RET-BBBB2222/approve", `{}`)

		assert.Equal(mt, http.StatusConflict, w.Code)
		assert.Contains(mt, w.Body.String(), "already processed")
	})

	mt.Run("vanished item un-approves the return", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "ihub.return_requests", mtest.FirstBatch,
				returnDoc("RET-BBBB2222", "pending")),
			// the pending->approved flip wins...
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			// ...but the item is no longer issued to the employee
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			// compensating un-approve of the return request
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		w := doJSON(newMockWorkflowRouter(mt.DB), http.MethodPut, "/return-requests/RET-BBBB2222/approve", `{}`)

		assert.Equal(mt, http.StatusConflict, w.Code)
		assert.Contains(mt, w.Body.String(), "no longer issued")
	})
}

func TestDeleteItem_ConcurrentlyIssuedItemSurvives(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("conditional delete matches nothing", func(mt *mtest.T) {
		h := &InventoryHandler{DB: mt.DB, Log: zap.NewNop()}
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.DELETE("/inventory/:id", h.DeleteItem)

		mt.AddMockResponses(
			// available at read time
			mtest.CreateCursorResponse(0, "ihub.inventory_items", mtest.FirstBatch,
				issuedItemDoc("IHUB/2024-25/LAP/STORE/007", "available", "")),
			// no pending returns reference it
			mtest.CreateCursorResponse(0, "ihub.return_requests", mtest.FirstBatch),
			// issued between the read and the delete, so the guarded delete
			// removes nothing
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodDelete, "/inventory/"+primitive.NewObjectID().Hex(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(mt, http.StatusConflict, w.Code)
		assert.Contains(mt, w.Body.String(), "currently issued")
	})
}
