package trade

import (
	"coincheck-bot/pkg/domain/model"
)

func (f *Facade) MaxRate(rates []float64) (float64, int) {
	max := rates[0]
	maxIndex := 0
	for i := 0; i < len(rates); i++ {
		rate := rates[i]
		if rate > max {
			max = rate
			maxIndex = i
		}
	}
	return max, maxIndex
}

func (f *Facade) MinRate(rates []float64) (float64, int) {
	min := rates[0]
	minIndex := 0
	for i := 0; i < len(rates); i++ {
		rate := rates[i]
		if rate < min {
			min = rate
			minIndex = i
		}
	}
	return min, minIndex
}

// LinFit 最小二乗法で直線あてはめを行い、傾きと切片を返す
func LinFit(x, y []float64) (a, b float64) {
	n := len(x)
	if n < 2 || n != len(y) {
		return 0, 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumXX += x[i] * x[i]
	}

	denominator := float64(n)*sumXX - sumX*sumX
	if denominator == 0 {
		return 0, 0
	}

	a = (float64(n)*sumXY - sumX*sumY) / denominator
	b = (sumY - a*sumX) / float64(n)
	return a, b
}

// CalcAmounts 約定情報から使った決済通貨量と得た取引通貨量を算出する
func CalcAmounts(pair *model.CurrencyPair, contracts []model.Contract) (used, obtained float64) {
	for _, c := range contracts {
		funds := []struct {
			currency model.CurrencyType
			amount   float64
		}{
			{c.Currency1, c.Fund1},
			{c.Currency2, c.Fund2},
		}

		for _, f := range funds {
			switch f.currency {
			case pair.Key:
				obtained += f.amount
			case pair.Settlement:
				used -= f.amount
			}
		}
	}
	return used, obtained
}
