package orderController

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	courseController "lms/controllers/course"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"
)

func requireAdmin(c *fiber.Ctx) *models.User {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		return nil
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		return nil
	}

	if user.Role != "ADMIN" {
		middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
		return nil
	}

	return &user
}

func generateOrderNumber() string {
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), strings.ToUpper(uuid.NewString()[:8]))
}

// CreateOrder places an order for one or more paid courses
func CreateOrder(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedOrder").(*struct {
		CourseIDs     []uint `json:"course_ids"`
		PaymentMethod string `json:"payment_method"`
		Currency      string `json:"currency"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var items []models.OrderItem
	var subtotal, discount float64

	for _, courseID := range reqData.CourseIDs {
		var course courseModels.Course
		if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}

		var existingEnrollment courseModels.Enrollment
		if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&existingEnrollment).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in one of the courses!", nil)
		}

		items = append(items, models.OrderItem{
			CourseID: course.ID,
			Title:    course.Title,
			Price:    course.Price,
			Discount: course.Discount,
		})
		subtotal += course.Price
		discount += course.Discount
	}

	currency := reqData.Currency
	if currency == "" {
		currency = "USD"
	}

	order := models.Order{
		OrderNumber:   generateOrderNumber(),
		UserID:        userID,
		Status:        models.OrderPending,
		Subtotal:      subtotal,
		Discount:      discount,
		Total:         subtotal - discount,
		PaymentMethod: reqData.PaymentMethod,
		PaymentStatus: models.PaymentPending,
		Currency:      currency,
		Items:         items,
	}

	if err := database.Database.Db.Create(&order).Error; err != nil {
		log.Printf("Error creating order: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create order!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Order created successfully!", order)
}

// GetMyOrders lists the user's orders
func GetMyOrders(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedOrderList").(*struct {
		Page   *int   `query:"page"`
		Limit  *int   `query:"limit"`
		Status string `query:"status"`
	})

	page := 1
	limit := 10
	status := ""
	if ok {
		if reqData.Page != nil && *reqData.Page > 0 {
			page = *reqData.Page
		}
		if reqData.Limit != nil && *reqData.Limit > 0 {
			limit = *reqData.Limit
		}
		status = reqData.Status
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Order{}).Where("user_id = ? AND is_deleted = ?", userID, false)
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	db.Count(&total)

	var orders []models.Order
	if err := db.Preload("Items").Offset(offset).Limit(limit).Order("created_at desc").Find(&orders).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch orders!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Orders fetched successfully!", fiber.Map{
		"orders": orders,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetOrder returns one of the user's orders by ID
func GetOrder(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	orderID := c.Locals("orderID").(int)

	var order models.Order
	if err := database.Database.Db.Preload("Items").Where("id = ? AND user_id = ? AND is_deleted = ?", orderID, userID, false).First(&order).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Order not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Order fetched successfully!", order)
}

// AdminGetAllOrders lists all orders with optional status filter
func AdminGetAllOrders(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	reqData, ok := c.Locals("validatedOrderList").(*struct {
		Page   *int   `query:"page"`
		Limit  *int   `query:"limit"`
		Status string `query:"status"`
	})

	page := 1
	limit := 10
	status := ""
	if ok {
		if reqData.Page != nil && *reqData.Page > 0 {
			page = *reqData.Page
		}
		if reqData.Limit != nil && *reqData.Limit > 0 {
			limit = *reqData.Limit
		}
		status = reqData.Status
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Order{}).Where("is_deleted = ?", false)
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	db.Count(&total)

	var orders []models.Order
	if err := db.Preload("Items").Offset(offset).Limit(limit).Order("created_at desc").Find(&orders).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch orders!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Orders fetched successfully!", fiber.Map{
		"orders": orders,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// AdminUpdateOrderStatus marks an order as paid, cancelled or refunded.
// Completing an order enrolls the user in the purchased courses.
func AdminUpdateOrderStatus(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	orderID := c.Locals("orderID").(int)

	reqData, ok := c.Locals("validatedOrderStatus").(*struct {
		Status        string `json:"status"`
		TransactionID string `json:"transaction_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var order models.Order
	if err := database.Database.Db.Preload("Items").Where("id = ? AND is_deleted = ?", orderID, false).First(&order).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Order not found!", nil)
	}

	if order.Status == models.OrderCompleted && reqData.Status == models.OrderCompleted {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Order already completed!", nil)
	}

	order.Status = reqData.Status
	if reqData.TransactionID != "" {
		order.TransactionID = reqData.TransactionID
	}

	switch reqData.Status {
	case models.OrderCompleted:
		now := time.Now()
		order.PaymentStatus = models.PaymentCompleted
		order.PaidAt = &now
	case models.OrderCancelled:
		order.PaymentStatus = models.PaymentFailed
	case models.OrderRefunded:
		order.PaymentStatus = models.PaymentRefunded
	}

	if err := database.Database.Db.Save(&order).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update order!", nil)
	}

	// Enroll the buyer once payment is complete
	if order.Status == models.OrderCompleted {
		var user models.User
		if err := database.Database.Db.Where("id = ?", order.UserID).First(&user).Error; err == nil {
			for _, item := range order.Items {
				var existing courseModels.Enrollment
				if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", order.UserID, item.CourseID, false).First(&existing).Error; err == nil {
					continue
				}
				if _, err := courseController.CreateEnrollment(order.UserID, item.CourseID); err != nil {
					log.Printf("Failed to enroll user %d in course %d for order %s: %v", order.UserID, item.CourseID, order.OrderNumber, err)
					continue
				}
				go utils.SendEnrollmentEmail(user.Email, user.Name, item.Title)
			}
		}

		go utils.NotifyEvent("order.completed", map[string]interface{}{
			"order_number": order.OrderNumber,
			"user_id":      order.UserID,
			"total":        order.Total,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Order status updated successfully!", order)
}
