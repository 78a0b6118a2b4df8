package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"coincheck-bot/pkg/domain/model"
	"coincheck-bot/pkg/infrastructure/memory"
	"coincheck-bot/pkg/infrastructure/mysql"

	"github.com/gorilla/mux"
	"github.com/kelseyhightower/envconfig"
)

type MonitorConfig struct {
	// DB設定
	DB model.DB `required:"true" split_words:"true"`
}

func main() {
	logger := memory.Logger{Level: memory.Debug}
	logger.Info("===== START PROGRAM ====================")
	defer logger.Info("===== END PROGRAM ======================")

	var config MonitorConfig
	if err := envconfig.Process("", &config); err != nil {
		logger.Error(err.Error())
		return
	}

	mysqlCli := mysql.NewClient(config.DB.UserName, config.DB.Password, config.DB.Host, config.DB.Port, config.DB.Name)

	r := mux.NewRouter()
	r.HandleFunc("/api/markets/{pair}", marketsHandler(mysqlCli)).Methods(http.MethodGet).Queries("minute", "{minute:[0-9]+}")

	http.Handle("/", r)
	if err := (http.ListenAndServe(":8080", nil)); err != nil {
		logger.Error("error occured: %v", err)
	}
}

func marketsHandler(mysqlCli *mysql.Client) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err, ok := recover().(error); ok {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(struct {
					Error string `json:"error"`
				}{
					Error: err.Error(),
				})
			}
		}()
		w.Header().Set("Content-Type", "application/json")

		pair, err := model.ParseToCurrencyPair(mux.Vars(r)["pair"])
		if err != nil {
			panic(err)
		}
		minute, err := strconv.Atoi(r.URL.Query().Get("minute"))
		if err != nil {
			panic(err)
		}
		duration := time.Duration(minute) * time.Minute

		res := Response{
			Markets: []Market{},
		}

		markets, err := mysqlCli.GetMarkets(pair, &duration)
		if err != nil {
			panic(err)
		}
		for _, m := range markets {
			res.Markets = append(res.Markets, Market{
				Datetime:   m.RecordedAt.Format(time.RFC3339),
				StoreRate:  m.StoreRate,
				SellRate:   m.SellRate,
				BuyRate:    m.BuyRate,
				SellVolume: m.SellVolume,
				BuyVolume:  m.BuyVolume,
			})
		}

		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(res); err != nil {
			panic(err)
		}
	}
}

type Market struct {
	Datetime   string  `json:"datetime"`
	StoreRate  float64 `json:"store_rate"`
	SellRate   float64 `json:"sell_rate"`
	BuyRate    float64 `json:"buy_rate"`
	SellVolume float64 `json:"sell_volume"`
	BuyVolume  float64 `json:"buy_volume"`
}

type Response struct {
	Markets []Market `json:"markets"`
}
