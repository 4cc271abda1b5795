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
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/eslsoft/phrasenet/internal/app"
	"github.com/eslsoft/phrasenet/internal/entity"
	"github.com/eslsoft/phrasenet/internal/repository"
	"github.com/eslsoft/phrasenet/internal/usecase"
)

// phraseCmd groups the phrase management subcommands.
var phraseCmd = &cobra.Command{
	Use:   "phrase",
	Short: "管理短语及其依赖关系",
}

var phraseAddCmd = &cobra.Command{
	Use:   "add <形式>",
	Short: "新增短语, 并登记它依赖的词条和简单短语",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pron, _ := cmd.Flags().GetString("pron")
		meaning, _ := cmd.Flags().GetString("meaning")
		level, _ := cmd.Flags().GetInt32("level")
		componentIDs, _ := cmd.Flags().GetInt64Slice("components")
		simpleIDs, _ := cmd.Flags().GetInt64Slice("simple")

		return withApp(cmd, func(ctx context.Context, c *app.Container) error {
			phrase, err := c.Phrases.CreatePhrase(ctx, usecase.CreatePhraseInput{
				Form:            args[0],
				Pronunciation:   pron,
				Meaning:         meaning,
				Level:           level,
				ComponentIDs:    componentIDs,
				SimplePhraseIDs: simpleIDs,
			})
			if err != nil {
				return fmt.Errorf("创建短语失败: %w", err)
			}
			cmd.Printf("已创建短语 #%d: %s (%s)\n", phrase.ID, phrase.Form, phrase.Tier)
			return nil
		})
	},
}

var phraseShowCmd = &cobra.Command{
	Use:   "show <短语ID>",
	Short: "查看短语详情及上下级依赖",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, c *app.Container) error {
			detail, err := c.Phrases.GetPhraseDetail(ctx, id)
			if err != nil {
				return fmt.Errorf("读取短语失败: %w", err)
			}
			out := cmd.OutOrStdout()
			phrase := detail.Phrase
			cmd.Printf("短语 #%d (%s)\n", phrase.ID, phrase.Tier)
			cmd.Printf("形式: %s\n", phrase.Form)
			cmd.Printf("读音: %s\n", phrase.Pronunciation)
			cmd.Printf("释义: %s\n", phrase.Meaning)
			cmd.Printf("等级: %d  已激活: %s  学习中: %s\n",
				phrase.Level, formatBool(phrase.Activated), formatBool(phrase.InStudy))

			cmd.Println("\n组成词条:")
			rows := make([][]string, 0, len(detail.Components))
			for i, item := range detail.Components {
				rows = append(rows, []string{
					strconv.Itoa(i + 1), formatID(item.ID), item.Form, item.Meaning,
				})
			}
			renderTable(out, []string{"位置", "ID", "形式", "释义"}, rows)

			if len(detail.SimplePhrases) > 0 {
				cmd.Println("\n包含的简单短语:")
				renderTable(out, []string{"ID", "形式", "释义"}, phraseBriefRows(detail.SimplePhrases))
			}
			if len(detail.ComplexPhrases) > 0 {
				cmd.Println("\n被下列复杂短语包含:")
				renderTable(out, []string{"ID", "形式", "释义"}, phraseBriefRows(detail.ComplexPhrases))
			}
			return nil
		})
	},
}

var phraseListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出短语",
	RunE: func(cmd *cobra.Command, args []string) error {
		available, _ := cmd.Flags().GetBool("available")
		inStudy, _ := cmd.Flags().GetBool("in-study")
		if available && inStudy {
			return errors.New("--available 与 --in-study 不能同时指定")
		}

		query := &repository.ListPhraseQuery{}
		query.Filter, _ = cmd.Flags().GetString("filter")
		query.OrderBy, _ = cmd.Flags().GetString("order-by")
		query.PageNo, _ = cmd.Flags().GetInt32("page")
		query.PageSize, _ = cmd.Flags().GetInt32("page-size")

		return withApp(cmd, func(ctx context.Context, c *app.Container) error {
			var (
				phrases []*entity.Phrase
				total   int64
				err     error
			)
			switch {
			case available:
				phrases, total, err = c.Phrases.AvailablePhrases(ctx, query)
			case inStudy:
				phrases, total, err = c.Phrases.PhrasesInStudy(ctx, query)
			default:
				phrases, total, err = c.Phrases.ListPhrases(ctx, query)
			}
			if err != nil {
				return fmt.Errorf("查询短语失败: %w", err)
			}

			rows := make([][]string, 0, len(phrases))
			for _, phrase := range phrases {
				rows = append(rows, []string{
					formatID(phrase.ID),
					phrase.Form,
					phrase.Meaning,
					string(phrase.Tier),
					formatBool(phrase.Activated),
					formatBool(phrase.InStudy),
				})
			}
			renderTable(cmd.OutOrStdout(), []string{"ID", "形式", "释义", "层级", "已激活", "学习中"}, rows)
			cmd.Printf("共 %d 条\n", total)
			return nil
		})
	},
}

var phraseHistoryCmd = &cobra.Command{
	Use:   "history <短语ID>",
	Short: "查看短语的激活历史",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, c *app.Container) error {
			logs, err := c.Phrases.ActivationHistory(ctx, id)
			if err != nil {
				return fmt.Errorf("读取激活历史失败: %w", err)
			}
			rows := make([][]string, 0, len(logs))
			for _, log := range logs {
				rows = append(rows, []string{
					formatTime(log.CreatedAt),
					log.Reason,
					formatIDList(log.ComponentIDs),
				})
			}
			renderTable(cmd.OutOrStdout(), []string{"时间", "原因", "组成词条"}, rows)
			return nil
		})
	},
}

var phraseStudyCmd = &cobra.Command{
	Use:   "study <短语ID>",
	Short: "将已激活的短语加入学习",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, c *app.Container) error {
			cards, err := c.Phrases.AddPhraseToStudy(ctx, id)
			if err != nil {
				return fmt.Errorf("加入学习失败: %w", err)
			}
			cmd.Printf("短语 #%d 已加入学习, 生成 %d 张卡片\n", id, len(cards))
			return nil
		})
	},
}

var phraseUnstudyCmd = &cobra.Command{
	Use:   "unstudy <短语ID>",
	Short: "将短语移出学习",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, c *app.Container) error {
			if err := c.Phrases.RemovePhraseFromStudy(ctx, id); err != nil {
				return fmt.Errorf("移出学习失败: %w", err)
			}
			cmd.Printf("短语 #%d 已移出学习\n", id)
			return nil
		})
	},
}

func phraseBriefRows(phrases []*entity.Phrase) [][]string {
	rows := make([][]string, 0, len(phrases))
	for _, phrase := range phrases {
		rows = append(rows, []string{formatID(phrase.ID), phrase.Form, phrase.Meaning})
	}
	return rows
}

func init() {
	rootCmd.AddCommand(phraseCmd)
	phraseCmd.AddCommand(phraseAddCmd)
	phraseCmd.AddCommand(phraseShowCmd)
	phraseCmd.AddCommand(phraseListCmd)
	phraseCmd.AddCommand(phraseHistoryCmd)
	phraseCmd.AddCommand(phraseStudyCmd)
	phraseCmd.AddCommand(phraseUnstudyCmd)

	phraseAddCmd.Flags().String("pron", "", "读音")
	phraseAddCmd.Flags().StringP("meaning", "m", "", "释义")
	phraseAddCmd.Flags().Int32("level", 1, "难度等级 (1-6)")
	phraseAddCmd.Flags().Int64Slice("components", nil, "组成词条的 ID, 按出现顺序")
	phraseAddCmd.Flags().Int64Slice("simple", nil, "包含的简单短语 ID")
	cobra.CheckErr(phraseAddCmd.MarkFlagRequired("meaning"))
	cobra.CheckErr(phraseAddCmd.MarkFlagRequired("components"))

	phraseListCmd.Flags().Bool("available", false, "只看已激活且未在学习中的短语")
	phraseListCmd.Flags().Bool("in-study", false, "只看学习中的短语")
	phraseListCmd.Flags().String("filter", "", `过滤表达式, 如 'tier == "simple"'`)
	phraseListCmd.Flags().String("order-by", "", "排序表达式")
	phraseListCmd.Flags().Int32("page", 1, "页码")
	phraseListCmd.Flags().Int32("page-size", 20, "每页数量")
}
