package harness

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/bytedance/sonic"
	"github.com/montanaflynn/stats"
)

// z999 双侧99.9%置信区间对应的正态分位数
const z999 = 3.2905

// Result 一个benchmark在所有fork、所有测量迭代上的汇总
type Result struct {
	Benchmark string `json:"benchmark"`
	Mode      string `json:"mode"`
	// Cnt 参与汇总的测量迭代数（forks * iterations）
	Cnt   int     `json:"cnt"`
	Score float64 `json:"score"`
	// Error 99.9%置信区间的半宽。迭代数不足2时基于批次样本计算
	Error float64 `json:"error"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	P50   float64 `json:"p50"`
	Unit  string  `json:"unit"`
}

type Report struct {
	Mode    string   `json:"mode"`
	Results []Result `json:"results"`
}

func scoreUnit(opts Options) string {
	if opts.Mode == Throughput {
		return "ops/" + unitLabel(opts.TimeUnit)
	}
	return unitLabel(opts.TimeUnit) + "/op"
}

func newResult(name string, opts Options, iterations []iterationResult) (Result, error) {
	scores := make([]float64, 0, len(iterations))
	var samples []float64
	for _, it := range iterations {
		scores = append(scores, it.Score)
		samples = append(samples, it.Samples...)
	}

	mean, err := stats.Mean(scores)
	if err != nil {
		return Result{}, fmt.Errorf("benchmark %s: %w", name, err)
	}
	res := Result{
		Benchmark: name,
		Mode:      opts.Mode.String(),
		Cnt:       len(scores),
		Score:     mean,
		Unit:      scoreUnit(opts),
	}
	if len(scores) >= 2 {
		res.Error = halfWidth(scores)
	} else {
		res.Error = halfWidth(samples)
	}
	if len(samples) > 0 {
		res.Min, _ = stats.Min(samples)
		res.Max, _ = stats.Max(samples)
		res.P50, _ = stats.Median(samples)
	}
	return res, nil
}

func halfWidth(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	sd, err := stats.StandardDeviationSample(data)
	if err != nil || math.IsNaN(sd) {
		return 0
	}
	return z999 * sd / math.Sqrt(float64(len(data)))
}

// WriteText 输出表格形式的报告
func (r *Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Benchmark\tMode\tCnt\tScore\t\tError\tUnits\t")
	for _, res := range r.Results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.3f\t±\t%.3f\t%s\t\n",
			res.Benchmark, res.Mode, res.Cnt, res.Score, res.Error, res.Unit)
	}
	return tw.Flush()
}

// WriteJSON 输出JSON形式的报告
func (r *Report) WriteJSON(w io.Writer) error {
	out, err := sonic.ConfigStd.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}
