package steps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/internal/integration/adapters"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
)

// iAmAuthenticatedAs creates the user row the account service would own and signs a token for it.
func (t *testContext) iAmAuthenticatedAs(email string) error {
	var existing model.UserModel
	err := t.suite.db.DbConn.Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		t.userID = existing.ID
	case errors.Is(err, gorm.ErrRecordNotFound):
		now := time.Now().UTC()
		user := &model.UserModel{
			ID:                 uuid.New(),
			Email:              email,
			Name:               strings.Split(email, "@")[0],
			EmailNotifications: true,
			BudgetAlerts:       true,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := t.suite.db.DbConn.Create(user).Error; err != nil {
			return err
		}
		t.userID = user.ID
	default:
		return err
	}

	token, err := adapters.SignAccessToken(testJWTSecret, t.userID, email, time.Hour)
	if err != nil {
		return fmt.Errorf("failed to sign access token: %w", err)
	}
	t.accessToken = token
	t.userEmail = email
	return nil
}

func (t *testContext) aCategoryOfTypeExists(name, categoryType string) error {
	if t.userID == uuid.Nil {
		return errors.New("no authenticated user")
	}

	now := time.Now().UTC()
	owner := t.userID
	category := &model.CategoryModel{
		ID:          uuid.New(),
		Name:        name,
		Type:        categoryType,
		Color:       "#6366F1",
		Icon:        "tag",
		OwnerUserID: &owner,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := t.suite.db.DbConn.Create(category).Error; err != nil {
		return err
	}
	t.vars["category:"+name] = category.ID.String()
	return nil
}

func (t *testContext) aBudgetExists(period, alias, categoryName, amount, startDate, endDate string) error {
	categoryID, ok := t.vars["category:"+categoryName]
	if !ok {
		return fmt.Errorf("unknown category %q", categoryName)
	}

	body := fmt.Sprintf(`{
		"category_id": %q,
		"amount": %s,
		"period": %q,
		"start_date": %q,
		"end_date": %q,
		"notifications": {"enabled": true, "threshold_percent": 80}
	}`, categoryID, amount, period, startDate, endDate)

	if err := t.executeRequest("POST", "/api/v1/budgets", []byte(body)); err != nil {
		return err
	}
	if err := t.theResponseStatusShouldBe(201); err != nil {
		return err
	}
	return t.iSaveTheResponseFieldAs("id", alias)
}

func (t *testContext) aTransactionIsRecorded(txType, alias, amount, categoryName, date string) error {
	categoryID, ok := t.vars["category:"+categoryName]
	if !ok {
		return fmt.Errorf("unknown category %q", categoryName)
	}

	body := fmt.Sprintf(`{
		"type": %q,
		"amount": %s,
		"category_id": %q,
		"description": %q,
		"transaction_date": %q,
		"payment_method": "debit_card"
	}`, txType, amount, categoryID, alias, date)

	if err := t.executeRequest("POST", "/api/v1/transactions", []byte(body)); err != nil {
		return err
	}
	if err := t.theResponseStatusShouldBe(201); err != nil {
		return err
	}
	return t.iSaveTheResponseFieldAs("id", alias)
}

func (t *testContext) iSaveTheResponseFieldAs(field, name string) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	value := getFieldValue(t.response.body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, t.response.body)
	}
	t.vars[name] = fmt.Sprintf("%v", value)
	return nil
}

func (t *testContext) fetchBudget(alias string) (map[string]any, error) {
	id, ok := t.vars[alias]
	if !ok {
		return nil, fmt.Errorf("unknown budget %q", alias)
	}
	if err := t.executeRequest("GET", "/api/v1/budgets/"+id, nil); err != nil {
		return nil, err
	}
	if err := t.theResponseStatusShouldBe(200); err != nil {
		return nil, err
	}
	body, ok := t.response.body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("budget response is not a JSON object: %v", t.response.body)
	}
	return body, nil
}

func (t *testContext) theBudgetShouldHave(alias, actualSpent, utilization string) error {
	body, err := t.fetchBudget(alias)
	if err != nil {
		return err
	}
	if got := fmt.Sprintf("%v", body["actual_spent"]); got != actualSpent {
		return fmt.Errorf("budget %s: expected actual_spent %s, got %s", alias, actualSpent, got)
	}
	if got := fmt.Sprintf("%v", body["utilization_rate"]); got != utilization {
		return fmt.Errorf("budget %s: expected utilization_rate %s, got %s", alias, utilization, got)
	}
	return nil
}

func (t *testContext) theBudgetShouldBeOverBudget(alias, remaining string) error {
	body, err := t.fetchBudget(alias)
	if err != nil {
		return err
	}
	if got := fmt.Sprintf("%v", body["remaining_amount"]); got != remaining {
		return fmt.Errorf("budget %s: expected remaining_amount %s, got %s", alias, remaining, got)
	}
	if over, _ := body["is_over_budget"].(bool); !over {
		return fmt.Errorf("budget %s: expected to be over budget: %v", alias, body)
	}
	return nil
}

func (t *testContext) theEmailWorkerProcessesTheQueue() error {
	t.suite.injector.EmailWorker.ProcessNow(context.Background())
	return nil
}

func (t *testContext) theEmailProviderShouldHaveReceived(quantity int) error {
	count := t.suite.apiMock.RequestCount("POST", "/emails")
	if count != quantity {
		return fmt.Errorf("expected %d emails sent to the provider, got %d", quantity, count)
	}
	return nil
}

func (t *testContext) theEmailProviderRequestFieldShouldContain(index int, field, expected string) error {
	body := t.suite.apiMock.GetRequestBody("POST", "/emails", index)
	if body == nil {
		return fmt.Errorf("no provider request at index %d", index)
	}
	value := fmt.Sprintf("%v", getFieldValue(body, field))
	if !strings.Contains(value, expected) {
		return fmt.Errorf("provider request %d field '%s' = %q, want it to contain %q", index, field, value, expected)
	}
	return nil
}

func (t *testContext) theEmailProviderRequestHeaderShouldBe(index int, name, expected string) error {
	value, ok := t.suite.apiMock.GetRequestHeader("POST", "/emails", index, name)
	if !ok {
		return fmt.Errorf("provider request %d has no header %q", index, name)
	}
	if value != expected {
		return fmt.Errorf("provider request %d header %q = %q, want %q", index, name, value, expected)
	}
	return nil
}

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	if entity, ok := t.suite.db.GetModel(table); ok {
		entityType := reflect.TypeOf(entity).Elem()
		entitySlice := reflect.MakeSlice(reflect.SliceOf(entityType), 0, 0)
		entitySlicePtr := reflect.New(entitySlice.Type())
		entitySlicePtr.Elem().Set(entitySlice)

		result := t.suite.db.DbConn.Unscoped().Find(entitySlicePtr.Interface())
		if result.Error != nil {
			return result.Error
		}

		count := entitySlicePtr.Elem().Len()
		if count != quantity {
			return fmt.Errorf("expected %d objects in '%s', got %d", quantity, table, count)
		}
		return nil
	}
	return fmt.Errorf("table '%s' not found in models", table)
}

func (t *testContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(t.replacePlaceholders(content.Content)), &criteria); err != nil {
		return err
	}

	if entity, ok := t.suite.db.GetModel(table); ok {
		entityType := reflect.TypeOf(entity).Elem()
		entitySlice := reflect.MakeSlice(reflect.SliceOf(entityType), 0, 0)
		entitySlicePtr := reflect.New(entitySlice.Type())
		entitySlicePtr.Elem().Set(entitySlice)

		query := t.suite.db.DbConn.Unscoped()
		for key, value := range criteria {
			query = query.Where(fmt.Sprintf("%s = ?", key), value)
		}

		result := query.Find(entitySlicePtr.Interface())
		if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}

		count := entitySlicePtr.Elem().Len()
		if count != quantity {
			return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
		}
		return nil
	}
	return fmt.Errorf("table '%s' not found in models", table)
}

func getFieldValue(object any, dotSeparatedField string) any {
	if object == nil {
		return nil
	}

	var objectMap map[string]any
	switch v := object.(type) {
	case map[string]any:
		objectMap = v
	default:
		objectJSON, _ := json.Marshal(object)
		if err := json.Unmarshal(objectJSON, &objectMap); err != nil {
			return nil
		}
	}

	fields := strings.Split(dotSeparatedField, ".")
	var field any = objectMap

	for _, currentField := range fields {
		if field == nil {
			return nil
		}

		if i, err := strconv.Atoi(currentField); err == nil {
			if arr, ok := field.([]any); ok && i < len(arr) {
				field = arr[i]
			} else {
				return nil
			}
		} else {
			if m, ok := field.(map[string]any); ok {
				field = m[currentField]
			} else {
				return nil
			}
		}
	}

	return field
}
