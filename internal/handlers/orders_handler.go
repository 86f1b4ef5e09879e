package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/drkae456/highScalableAWSArchitecture/internal/aws"
	"github.com/drkae456/highScalableAWSArchitecture/internal/events"
	"github.com/drkae456/highScalableAWSArchitecture/internal/files"
	"github.com/drkae456/highScalableAWSArchitecture/internal/orders"
	"github.com/drkae456/highScalableAWSArchitecture/internal/validation"
)

// HandlerConfig groups dependencies for the HTTP handlers.
type HandlerConfig struct {
	DynamoDBClient    aws.DynamoDBAPI
	EventBridgeClient aws.EventBridgeAPI
	S3Client          aws.S3API
	TableName         string
	EventBusName      string
	S3Bucket          string
	Version           string
}

// RegisterRoutes installs the full HTTP surface on the router.
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	ordersStore := orders.NewStore(cfg.DynamoDBClient, cfg.TableName)
	publisher := events.NewPublisher(cfg.EventBridgeClient, cfg.EventBusName)
	filesStore := files.NewStore(cfg.S3Client, cfg.S3Bucket)

	// service metadata
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":   "Welcome to High Scalable AWS Architecture API",
			"version":   cfg.Version,
			"timestamp": now(),
			"environment": gin.H{
				"table_name": cfg.TableName,
				"event_bus":  cfg.EventBusName,
				"s3_bucket":  cfg.S3Bucket,
			},
		})
	})

	// health check for load balancers; probes the orders table only
	r.GET("/health", func(c *gin.Context) {
		if err := ordersStore.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"detail": fmt.Sprintf("Service unhealthy: %v", err),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": now(),
			"services": gin.H{
				"dynamodb":    "connected",
				"eventbridge": "available",
				"s3":          "available",
			},
		})
	})

	r.POST("/orders", func(c *gin.Context) {
		ctx := c.Request.Context()

		// the order body is free-form; anything JSON goes
		fields := map[string]interface{}{}
		if err := c.ShouldBindJSON(&fields); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body", "msg": err.Error()})
			return
		}

		res, err := ordersStore.Create(ctx, fields)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Failed to create order: %v", err)})
			return
		}

		// fire-and-forget: the record is already stored, a publish failure
		// is surfaced but not rolled back
		ev := events.OrderEvent{OrderID: res.OrderID, Status: res.Status, Timestamp: res.Timestamp}
		if err := publisher.PublishOrderEvent(ctx, events.DetailTypeOrderCreated, ev); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Failed to create order: %v", err)})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"order_id":  res.OrderID,
			"status":    res.Status,
			"timestamp": res.Timestamp,
		})
	})

	r.GET("/orders", func(c *gin.Context) {
		items, err := ordersStore.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Failed to list orders: %v", err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"orders": items,
			"count":  len(items),
		})
	})

	r.GET("/orders/:order_id", func(c *gin.Context) {
		item, err := ordersStore.Get(c.Request.Context(), c.Param("order_id"))
		if errors.Is(err, orders.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Failed to get order: %v", err)})
			return
		}
		c.JSON(http.StatusOK, item)
	})

	r.PUT("/orders/:order_id/status", func(c *gin.Context) {
		ctx := c.Request.Context()
		orderID := c.Param("order_id")

		var req validation.UpdateStatusRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote a 400
			return
		}

		ts, err := ordersStore.UpdateStatus(ctx, orderID, req.Status)
		if errors.Is(err, orders.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Failed to update order: %v", err)})
			return
		}

		ev := events.OrderEvent{OrderID: orderID, Status: req.Status, Timestamp: ts}
		if err := publisher.PublishOrderEvent(ctx, events.DetailTypeStatusUpdated, ev); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Failed to update order: %v", err)})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"order_id":  orderID,
			"status":    req.Status,
			"timestamp": ts,
		})
	})

	r.POST("/files/upload", func(c *gin.Context) {
		payload := map[string]interface{}{}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body", "msg": err.Error()})
			return
		}

		key, err := filesStore.Upload(c.Request.Context(), payload)
		if errors.Is(err, files.ErrBucketNotConfigured) {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "S3 bucket not configured"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Failed to upload file: %v", err)})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"file_key":  key,
			"bucket":    filesStore.Bucket(),
			"timestamp": now(),
		})
	})
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
