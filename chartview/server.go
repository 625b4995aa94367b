package chartview

import (
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cryptoai/utils/log"
)

// StartChartServer serves the operator chart pages and the Prometheus
// scrape endpoint on one mux, separate from the API port.
func StartChartServer(addr string) {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
            <h2>CryptoAI Chart</h2>
            <p><a href="/chart">Go To Candle Chart</a></p>
            <p><a href="/metrics">Metrics</a></p>
            </body></html>`))
	})
	mux.HandleFunc("/chart", candleChartHandler)
	mux.Handle("/metrics", promhttp.Handler())

	log.Infof("[ChartView] listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Errorf("[ChartView] server error: %v", err)
	}
}

func candleChartHandler(w http.ResponseWriter, r *http.Request) {
	page := components.NewPage()
	page.PageTitle = "CryptoAI Chart"

	kline := buildCandleChart()
	rsiLine := buildRSIChart()

	page.AddCharts(kline, rsiLine)
	_ = page.Render(w)
}

func buildCandleChart() *charts.Kline {
	candles := GlobalChartData.GetCandles()
	n := len(candles)
	if n == 0 {
		return charts.NewKLine()
	}

	xVals := make([]string, n)
	kValues := make([]opts.KlineData, n)

	// go-echarts Kline expects [open, close, low, high]
	for i, c := range candles {
		xVals[i] = c.Time.Format("01/02 15:04")
		kValues[i] = opts.KlineData{
			Value: [4]float64{c.Open, c.Close, c.Low, c.High},
		}
	}

	kline := charts.NewKLine()
	kline.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Candle Chart",
			Show:  opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
	)
	kline.SetXAxis(xVals).
		AddSeries("KLine", kValues).
		SetSeriesOptions(charts.WithItemStyleOpts(opts.ItemStyle{
			Color:        "#ec0000",
			Color0:       "#00da3c",
			BorderColor:  "#8A0000",
			BorderColor0: "#008F28",
		}))

	_, sma20, upper, lower := GlobalChartData.GetIndicators()
	if len(sma20) > 0 {
		overlay := charts.NewLine()
		overlay.SetXAxis(xVals).
			AddSeries("SMA 20", toLineData(sma20)).
			AddSeries("BB Upper", toLineData(upper)).
			AddSeries("BB Lower", toLineData(lower)).
			SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
		kline.Overlap(overlay)
	}
	return kline
}

func buildRSIChart() *charts.Line {
	rsiArr, _, _, _ := GlobalChartData.GetIndicators()
	if len(rsiArr) == 0 {
		return charts.NewLine()
	}

	xVals := GlobalChartData.GetTimeAxis()
	// RSI is shorter than the candle axis by its warmup, align to the tail
	if len(rsiArr) < len(xVals) {
		xVals = xVals[len(xVals)-len(rsiArr):]
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "RSI(14)",
			Show:  opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
	)

	line.SetXAxis(xVals).
		AddSeries("RSI(14)", toLineData(rsiArr)).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	return line
}

func toLineData(values []float64) []opts.LineData {
	out := make([]opts.LineData, len(values))
	for i, v := range values {
		out[i] = opts.LineData{Value: v}
	}
	return out
}
