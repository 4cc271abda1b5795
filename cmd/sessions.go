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
	"strconv"

	"github.com/spf13/cobra"

	"github.com/eslsoft/phrasenet/internal/app"
	"github.com/eslsoft/phrasenet/internal/entity"
)

// sessionsCmd lists recent study sessions.
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "查看最近的学习会话",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt32("limit")
		return withApp(cmd, func(ctx context.Context, c *app.Container) error {
			sessions, err := c.Sessions.Recent(ctx, limit)
			if err != nil {
				return fmt.Errorf("查询会话失败: %w", err)
			}
			rows := make([][]string, 0, len(sessions))
			for _, s := range sessions {
				ended := "-"
				if s.EndedAt != nil {
					ended = formatTime(*s.EndedAt)
				}
				accuracy := entity.AccuracyPct(int64(s.Correct), int64(s.Studied))
				rows = append(rows, []string{
					formatID(s.ID),
					formatTime(s.StartedAt),
					ended,
					strconv.Itoa(int(s.Studied)),
					strconv.Itoa(int(s.Correct)),
					strconv.Itoa(int(s.Incorrect)),
					fmt.Sprintf("%.1f%%", accuracy),
				})
			}
			renderTable(cmd.OutOrStdout(),
				[]string{"ID", "开始时间", "结束时间", "学习", "正确", "错误", "正确率"}, rows)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)

	sessionsCmd.Flags().Int32("limit", 10, "返回数量上限")
}
