package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/flaboy/aira-checkout/pkg/config"
	"github.com/flaboy/aira-checkout/pkg/models"
	"github.com/flaboy/aira-checkout/pkg/types"
)

// Dispatcher 订单确认通知投递到SQS队列,由下游邮件服务消费。
// 发送是fire-and-forget:不等待结果,失败只记录日志,
// 相对HTTP响应没有顺序保证。
type Dispatcher struct {
	client   *sqs.Client
	queueURL string
}

type OrderConfirmationMessage struct {
	OrderID       uint   `json:"order_id"`
	StoreCode     string `json:"store_code"`
	CustomerEmail string `json:"customer_email"`
	Total         string `json:"total"`
	Currency      string `json:"currency"`
	CreatedAt     time.Time `json:"created_at"`
}

var dispatcher *Dispatcher

func Init() error {
	if !config.Config.Notify.Enabled {
		slog.Info("[Notify] Order confirmation dispatch disabled")
		return nil
	}

	ctx := context.Background()
	var cfg aws.Config
	var err error
	if config.Config.Notify.AWSAccessKey != "" {
		cfg, err = awsConfig.LoadDefaultConfig(ctx,
			awsConfig.WithRegion(config.Config.Notify.AWSRegion),
			awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				config.Config.Notify.AWSAccessKey,
				config.Config.Notify.AWSSecret,
				"",
			)),
		)
	} else {
		cfg, err = awsConfig.LoadDefaultConfig(ctx,
			awsConfig.WithRegion(config.Config.Notify.AWSRegion),
		)
	}
	if err != nil {
		return fmt.Errorf("failed to load AWS config for notify queue: %w", err)
	}

	dispatcher = &Dispatcher{
		client:   sqs.NewFromConfig(cfg),
		queueURL: config.Config.Notify.SQSQueueURL,
	}
	slog.Info("[Notify] Order confirmation dispatcher initialized", "queue", dispatcher.queueURL)
	return nil
}

// DispatchOrderConfirmation enqueues the confirmation message on a
// separate goroutine and returns immediately. A failed notification is
// only logged; checkout has already succeeded at this point.
func DispatchOrderConfirmation(order *models.Order, customer *types.Customer, store *types.MerchantStore) {
	if dispatcher == nil {
		return
	}

	msg := OrderConfirmationMessage{
		OrderID:       order.ID,
		StoreCode:     store.Code,
		CustomerEmail: customer.Email,
		Total:         order.Total.StringFixed(2),
		Currency:      order.Currency,
		CreatedAt:     time.Now(),
	}

	go func() {
		body, err := json.Marshal(msg)
		if err != nil {
			slog.Error("[Notify] Failed to marshal order confirmation", "order", order.ID, "error", err)
			return
		}
		_, err = dispatcher.client.SendMessage(context.Background(), &sqs.SendMessageInput{
			QueueUrl:    aws.String(dispatcher.queueURL),
			MessageBody: aws.String(string(body)),
		})
		if err != nil {
			slog.Error("[Notify] Failed to dispatch order confirmation", "order", order.ID, "error", err)
			return
		}
		slog.Info("[Notify] Order confirmation dispatched", "order", order.ID)
	}()
}
