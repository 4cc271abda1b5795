/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eslsoft/phrasenet/internal/app"
	"github.com/eslsoft/phrasenet/pkg/sm2"
)

var stateLabels = []struct {
	state sm2.State
	label string
}{
	{sm2.StateNew, "新"},
	{sm2.StateLearning, "学习中"},
	{sm2.StateMastered, "已掌握"},
	{sm2.StateMature, "成熟"},
}

// statsCmd prints aggregate review statistics.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "查看学习统计",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, c *app.Container) error {
			stats, err := c.Reviews.Stats(ctx)
			if err != nil {
				return fmt.Errorf("查询统计失败: %w", err)
			}
			cmd.Printf("到期卡片: %d\n", stats.DueCount)
			cmd.Println("卡片状态:")
			for _, sl := range stateLabels {
				cmd.Printf("  %s: %d\n", sl.label, stats.StateCounts[sl.state])
			}
			cmd.Printf("累计复习: %d 次, 正确 %d 次, 正确率 %.1f%%\n",
				stats.TotalReviews, stats.CorrectReviews, stats.AccuracyPct)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
