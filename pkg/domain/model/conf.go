package model

// Exchange 取引所接続設定
type Exchange struct {
	AccessKey string `split_words:"true" required:"true"`
	SecretKey string `split_words:"true" required:"true"`
}

// DB DB接続設定
type DB struct {
	Host     string `required:"true"`
	Port     int    `required:"true"`
	Name     string `required:"true"`
	UserName string `split_words:"true" required:"true"`
	Password string `required:"true"`
}
