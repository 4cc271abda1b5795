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
	"strings"

	"github.com/spf13/cobra"

	"github.com/eslsoft/phrasenet/internal/app"
)

// studyCmd groups the study list subcommands.
var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "管理学习清单",
}

var studyAddCmd = &cobra.Command{
	Use:   "add <词条ID>",
	Short: "将词条加入学习",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, c *app.Container) error {
			cards, err := c.Study.AddVocabToStudy(ctx, id)
			if err != nil {
				return fmt.Errorf("加入学习失败: %w", err)
			}
			cmd.Printf("词条 #%d 已加入学习, 生成 %d 张卡片\n", id, len(cards))
			return nil
		})
	},
}

var studyRemoveCmd = &cobra.Command{
	Use:   "remove <词条ID>",
	Short: "将词条移出学习",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, c *app.Container) error {
			if err := c.Study.RemoveVocabFromStudy(ctx, id); err != nil {
				return fmt.Errorf("移出学习失败: %w", err)
			}
			cmd.Printf("词条 #%d 已移出学习\n", id)
			return nil
		})
	},
}

var studyNoteCmd = &cobra.Command{
	Use:   "note <词条ID> <备注>",
	Short: "更新学习备注",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		note := strings.Join(args[1:], " ")
		return withApp(cmd, func(ctx context.Context, c *app.Container) error {
			if err := c.Study.UpdateNote(ctx, id, note); err != nil {
				return fmt.Errorf("更新备注失败: %w", err)
			}
			cmd.Println("备注已更新")
			return nil
		})
	},
}

var studyListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出学习清单",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		return withApp(cmd, func(ctx context.Context, c *app.Container) error {
			entries, err := c.Study.ListStudyEntries(ctx, !all)
			if err != nil {
				return fmt.Errorf("查询学习清单失败: %w", err)
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				item, err := c.Vocab.GetVocabItem(ctx, entry.VocabItemID)
				if err != nil {
					return fmt.Errorf("读取词条 #%d 失败: %w", entry.VocabItemID, err)
				}
				rows = append(rows, []string{
					formatID(entry.VocabItemID),
					item.Form,
					item.Meaning,
					formatBool(entry.Active),
					entry.Note,
					formatTime(entry.AddedAt),
				})
			}
			renderTable(cmd.OutOrStdout(), []string{"词条ID", "形式", "释义", "激活", "备注", "加入时间"}, rows)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(studyCmd)
	studyCmd.AddCommand(studyAddCmd)
	studyCmd.AddCommand(studyRemoveCmd)
	studyCmd.AddCommand(studyNoteCmd)
	studyCmd.AddCommand(studyListCmd)

	studyListCmd.Flags().Bool("all", false, "包含已暂停的条目")
}
