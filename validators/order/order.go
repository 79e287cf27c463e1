package orderValidator

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"lms/middleware"
	"lms/models"
)

var validPaymentMethods = map[string]bool{"CARD": true, "BANK_TRANSFER": true, "CASH": true}

// CreateOrder validates order creation request
func CreateOrder() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseIDs     []uint `json:"course_ids"`
			PaymentMethod string `json:"payment_method"`
			Currency      string `json:"currency"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.PaymentMethod = strings.ToUpper(strings.TrimSpace(reqData.PaymentMethod))
		reqData.Currency = strings.ToUpper(strings.TrimSpace(reqData.Currency))

		if len(reqData.CourseIDs) == 0 {
			errors["course_ids"] = "At least one course is required!"
		}

		seen := make(map[uint]bool)
		for _, id := range reqData.CourseIDs {
			if id == 0 {
				errors["course_ids"] = "Invalid course ID!"
				break
			}
			if seen[id] {
				errors["course_ids"] = "Duplicate course in order!"
				break
			}
			seen[id] = true
		}

		if reqData.PaymentMethod == "" {
			errors["payment_method"] = "Payment method is required!"
		} else if !validPaymentMethods[reqData.PaymentMethod] {
			errors["payment_method"] = "Payment method must be CARD, BANK_TRANSFER, or CASH!"
		}

		if reqData.Currency != "" && len(reqData.Currency) != 3 {
			errors["currency"] = "Currency must be a 3 letter code!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedOrder", reqData)
		return c.Next()
	}
}

// OrderList validates order listing request
func OrderList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page   *int   `query:"page"`
			Limit  *int   `query:"limit"`
			Status string `query:"status"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		reqData.Status = strings.ToUpper(strings.TrimSpace(reqData.Status))

		if reqData.Status != "" {
			validStatuses := map[string]bool{
				models.OrderPending:   true,
				models.OrderCompleted: true,
				models.OrderCancelled: true,
				models.OrderRefunded:  true,
			}
			if !validStatuses[reqData.Status] {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid order status filter!", nil)
			}
		}

		c.Locals("validatedOrderList", reqData)
		return c.Next()
	}
}

// OrderID validates requests carrying an order ID param
func OrderID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderIDStr := strings.TrimSpace(c.Params("id"))
		if orderIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Order ID is required!", nil)
		}

		orderID, err := strconv.Atoi(orderIDStr)
		if err != nil || orderID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Order ID!", nil)
		}

		c.Locals("orderID", orderID)
		return c.Next()
	}
}

// UpdateOrderStatus validates admin order status update request
func UpdateOrderStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderIDStr := strings.TrimSpace(c.Params("id"))
		if orderIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Order ID is required!", nil)
		}

		orderID, err := strconv.Atoi(orderIDStr)
		if err != nil || orderID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Order ID!", nil)
		}

		reqData := new(struct {
			Status        string `json:"status"`
			TransactionID string `json:"transaction_id"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Status = strings.ToUpper(strings.TrimSpace(reqData.Status))
		reqData.TransactionID = strings.TrimSpace(reqData.TransactionID)

		validStatuses := map[string]bool{
			models.OrderCompleted: true,
			models.OrderCancelled: true,
			models.OrderRefunded:  true,
		}
		if reqData.Status == "" {
			errors["status"] = "Status is required!"
		} else if !validStatuses[reqData.Status] {
			errors["status"] = "Status must be COMPLETED, CANCELLED, or REFUNDED!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("orderID", orderID)
		c.Locals("validatedOrderStatus", reqData)
		return c.Next()
	}
}
