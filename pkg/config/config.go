package config

type CommenceConfig struct {
	// 下单时是否校验信用卡字段
	ValidateCreditCard bool `cfg:"VALIDATE_CREDIT_CARD" default:"true"`

	// 支付服务配置
	PayPal struct {
		ClientID     string `cfg:"CLIENT_ID"`
		ClientSecret string `cfg:"CLIENT_SECRET"`
		Live         bool   `cfg:"LIVE" default:"false"`
	} `cfg:"PAYPAL"`

	// 承运商报价API配置
	CarrierAPI struct {
		Endpoint  string `cfg:"ENDPOINT"`
		SecretKey string `cfg:"SECRET_KEY"`
	} `cfg:"CARRIER_API"`

	// 距离后处理器使用的地理编码服务
	Geocode struct {
		Endpoint string `cfg:"ENDPOINT"`
		APIKey   string `cfg:"API_KEY"`
	} `cfg:"GEOCODE"`

	// 订单确认通知队列
	Notify struct {
		Enabled      bool   `cfg:"ENABLED" default:"false"`
		AWSRegion    string `cfg:"AWS_REGION"`
		AWSAccessKey string `cfg:"AWS_ACCESS_KEY"`
		AWSSecret    string `cfg:"AWS_SECRET"`
		SQSQueueURL  string `cfg:"SQS_QUEUE_URL"`
	} `cfg:"NOTIFY"`
}

var Config *CommenceConfig
