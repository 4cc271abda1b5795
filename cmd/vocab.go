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
	"strings"

	"github.com/spf13/cobra"

	"github.com/eslsoft/phrasenet/internal/app"
	"github.com/eslsoft/phrasenet/internal/entity"
	"github.com/eslsoft/phrasenet/internal/repository"
	"github.com/eslsoft/phrasenet/internal/usecase"
)

// vocabCmd groups the vocabulary management subcommands.
var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "管理词库",
}

var vocabAddCmd = &cobra.Command{
	Use:   "add <形式>",
	Short: "新增词条",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pron, _ := cmd.Flags().GetString("pron")
		meaning, _ := cmd.Flags().GetString("meaning")
		level, _ := cmd.Flags().GetInt32("level")
		altForms, _ := cmd.Flags().GetStringSlice("alt")
		category, _ := cmd.Flags().GetString("category")

		return withApp(cmd, func(ctx context.Context, c *app.Container) error {
			item, err := c.Vocab.CreateVocabItem(ctx, usecase.CreateVocabInput{
				Form:          args[0],
				Pronunciation: pron,
				Meaning:       meaning,
				Level:         level,
				AltForms:      altForms,
				Category:      category,
			})
			if err != nil {
				return fmt.Errorf("创建词条失败: %w", err)
			}
			cmd.Printf("已创建词条 #%d: %s\n", item.ID, item.Form)
			return nil
		})
	},
}

var vocabListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出词条",
	RunE: func(cmd *cobra.Command, args []string) error {
		query := &repository.ListVocabQuery{}
		query.Filter, _ = cmd.Flags().GetString("filter")
		query.OrderBy, _ = cmd.Flags().GetString("order-by")
		query.PageNo, _ = cmd.Flags().GetInt32("page")
		query.PageSize, _ = cmd.Flags().GetInt32("page-size")

		return withApp(cmd, func(ctx context.Context, c *app.Container) error {
			items, total, err := c.Vocab.ListVocab(ctx, query)
			if err != nil {
				return fmt.Errorf("查询词条失败: %w", err)
			}
			renderTable(cmd.OutOrStdout(), []string{"ID", "形式", "读音", "释义", "等级", "分类"}, vocabRows(items))
			cmd.Printf("共 %d 条\n", total)
			return nil
		})
	},
}

var vocabShowCmd = &cobra.Command{
	Use:   "show <词条ID>",
	Short: "查看词条详情",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, c *app.Container) error {
			item, err := c.Vocab.GetVocabItem(ctx, id)
			if err != nil {
				return fmt.Errorf("读取词条失败: %w", err)
			}
			cmd.Printf("词条 #%d\n", item.ID)
			cmd.Printf("形式: %s\n", item.Form)
			cmd.Printf("读音: %s\n", item.Pronunciation)
			cmd.Printf("释义: %s\n", item.Meaning)
			cmd.Printf("等级: %d\n", item.Level)
			if item.Category != "" {
				cmd.Printf("分类: %s\n", item.Category)
			}
			if len(item.AltForms) > 0 {
				cmd.Printf("变体: %s\n", strings.Join(item.AltForms, " | "))
			}
			cmd.Printf("创建于: %s\n", formatTime(item.CreatedAt))
			return nil
		})
	},
}

var vocabSearchCmd = &cobra.Command{
	Use:   "search <关键词>",
	Short: "按形式、读音或释义搜索词条",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt32("limit")
		return withApp(cmd, func(ctx context.Context, c *app.Container) error {
			items, err := c.Vocab.SearchVocab(ctx, args[0], limit)
			if err != nil {
				return fmt.Errorf("搜索词条失败: %w", err)
			}
			renderTable(cmd.OutOrStdout(), []string{"ID", "形式", "读音", "释义", "等级", "分类"}, vocabRows(items))
			return nil
		})
	},
}

func vocabRows(items []*entity.VocabItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			formatID(item.ID),
			item.Form,
			item.Pronunciation,
			item.Meaning,
			strconv.Itoa(int(item.Level)),
			item.Category,
		})
	}
	return rows
}

func init() {
	rootCmd.AddCommand(vocabCmd)
	vocabCmd.AddCommand(vocabAddCmd)
	vocabCmd.AddCommand(vocabListCmd)
	vocabCmd.AddCommand(vocabShowCmd)
	vocabCmd.AddCommand(vocabSearchCmd)

	vocabAddCmd.Flags().String("pron", "", "读音")
	vocabAddCmd.Flags().StringP("meaning", "m", "", "释义")
	vocabAddCmd.Flags().Int32("level", 1, "难度等级 (1-6)")
	vocabAddCmd.Flags().StringSlice("alt", nil, "变体形式, 可重复指定")
	vocabAddCmd.Flags().String("category", "", "分类标签")
	cobra.CheckErr(vocabAddCmd.MarkFlagRequired("meaning"))

	vocabListCmd.Flags().String("filter", "", `过滤表达式, 如 'level >= 2 && category == "hsk1"'`)
	vocabListCmd.Flags().String("order-by", "", "排序表达式, 如 'level desc'")
	vocabListCmd.Flags().Int32("page", 1, "页码")
	vocabListCmd.Flags().Int32("page-size", 20, "每页数量")

	vocabSearchCmd.Flags().Int32("limit", 20, "返回数量上限")
}
