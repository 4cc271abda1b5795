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
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eslsoft/phrasenet/internal/app"
	"github.com/eslsoft/phrasenet/internal/entity"
	"github.com/eslsoft/phrasenet/internal/usecase"
	"github.com/eslsoft/phrasenet/pkg/sm2"
)

// reviewCmd runs an interactive review session over the due cards.
var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "复习到期卡片",
	Long: `开始一次学习会话, 按到期顺序出示卡片。
每张卡片先回想再回车看答案, 然后评分: 0=忘记, 1=困难, 2=记得。
短语卡片评分低于"记得"时, 可以标记是哪些组成词条没想起来。
任何提示下输入 q 结束会话。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt32("limit")
		return withApp(cmd, func(ctx context.Context, c *app.Container) error {
			return runReviewSession(ctx, c, cmd, limit)
		})
	},
}

func runReviewSession(ctx context.Context, c *app.Container, cmd *cobra.Command, limit int32) error {
	session, err := c.Sessions.Start(ctx)
	if err != nil {
		return fmt.Errorf("开始会话失败: %w", err)
	}

	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	quit := false
	for !quit {
		due, err := c.Reviews.DueCards(ctx, limit, true)
		if err != nil {
			return fmt.Errorf("获取到期卡片失败: %w", err)
		}
		if len(due) == 0 {
			fmt.Fprintln(out, "没有到期的卡片了。")
			break
		}
		for _, card := range due {
			quit, err = reviewOne(ctx, c, scanner, out, session.ID, card)
			if err != nil {
				return err
			}
			if quit {
				break
			}
		}
	}

	summary, err := c.Sessions.End(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("结束会话失败: %w", err)
	}
	fmt.Fprintf(out, "\n本次会话: 学习 %d 张, 正确 %d, 错误 %d, 正确率 %.1f%%\n",
		summary.Studied, summary.Correct, summary.Incorrect, summary.AccuracyPct)
	return nil
}

// reviewOne shows a single card, collects a grade and submits it.
// The returned bool reports that the learner asked to quit.
func reviewOne(ctx context.Context, c *app.Container, scanner *bufio.Scanner, out io.Writer, sessionID int64, due entity.DueCard) (bool, error) {
	modality := due.Card.Modality
	fmt.Fprintf(out, "\n== 卡片 #%d (%s) ==\n", due.Card.ID, modality)
	if modality.ShowsForm() {
		fmt.Fprintf(out, "形式: %s\n", due.Form)
	}
	if modality.ShowsPronunciation() {
		fmt.Fprintf(out, "读音: %s\n", due.Pronunciation)
	}
	if modality.ShowsMeaning() {
		fmt.Fprintf(out, "释义: %s\n", due.Meaning)
	}
	if modality.HasAudio() {
		fmt.Fprintln(out, "[音频] 请朗读出声")
	}
	if modality.Answer() == entity.AnswerMeaning {
		fmt.Fprint(out, "回想它的释义, 回车看答案: ")
	} else {
		fmt.Fprint(out, "回想它的形式, 回车看答案: ")
	}
	text, ok := readLine(scanner)
	if !ok || text == "q" {
		return true, nil
	}

	fmt.Fprintf(out, "答案: %s [%s] %s\n", due.Form, due.Pronunciation, due.Meaning)

	quality, quit, err := readQuality(scanner, out)
	if quit || err != nil {
		return true, err
	}

	input := usecase.SubmitReviewInput{
		CardID:    due.Card.ID,
		Quality:   quality,
		SessionID: &sessionID,
		Answer:    text,
	}
	if due.Card.OwnerKind == entity.OwnerPhrase && quality < sm2.QualityGood {
		quit, err := collectPhraseFailures(ctx, c, scanner, out, due.Card.OwnerID, &input)
		if quit || err != nil {
			return true, err
		}
	}

	result, err := c.Reviews.SubmitReview(ctx, input)
	if err != nil {
		return false, fmt.Errorf("提交评分失败: %w", err)
	}
	fmt.Fprintf(out, "下次复习: %s (间隔 %d 天)\n",
		formatTime(result.Progress.NextReviewAt), result.Progress.IntervalDays)
	for _, effect := range result.Effects {
		fmt.Fprintf(out, "联动: %s\n", describeEffect(effect))
	}
	return false, nil
}

func readLine(scanner *bufio.Scanner) (string, bool) {
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}

func readQuality(scanner *bufio.Scanner, out io.Writer) (sm2.Quality, bool, error) {
	for {
		fmt.Fprint(out, "评分 [0=忘记 1=困难 2=记得, 回车=2, q=退出]: ")
		text, ok := readLine(scanner)
		if !ok || text == "q" {
			return 0, true, nil
		}
		switch text {
		case "", "2":
			return sm2.QualityGood, false, nil
		case "1":
			return sm2.QualityHard, false, nil
		case "0":
			return sm2.QualityForgot, false, nil
		}
		fmt.Fprintln(out, "无法识别, 请输入 0、1、2 或 q。")
	}
}

// collectPhraseFailures lets the learner mark which component items (or
// the phrase structure itself) caused a failed phrase review, so the
// blame lands on the right cards.
func collectPhraseFailures(ctx context.Context, c *app.Container, scanner *bufio.Scanner, out io.Writer, phraseID int64, input *usecase.SubmitReviewInput) (bool, error) {
	detail, err := c.Phrases.GetPhraseDetail(ctx, phraseID)
	if err != nil {
		return false, fmt.Errorf("读取短语组成失败: %w", err)
	}
	fmt.Fprintln(out, "短语组成:")
	for _, item := range detail.Components {
		fmt.Fprintf(out, "  #%d %s (%s)\n", item.ID, item.Form, item.Meaning)
	}
	for {
		fmt.Fprint(out, "哪些词条没想起来? 输入 ID (逗号分隔), 回车跳过: ")
		text, ok := readLine(scanner)
		if !ok || text == "q" {
			return true, nil
		}
		ids, err := parseIDList(text)
		if err != nil {
			fmt.Fprintf(out, "%v\n", err)
			continue
		}
		input.FailedComponentIDs = ids
		break
	}
	fmt.Fprint(out, "句式结构也忘了吗? [y/N]: ")
	text, ok := readLine(scanner)
	if !ok {
		return true, nil
	}
	input.FailedStructure = strings.EqualFold(text, "y")
	return false, nil
}

func describeEffect(effect usecase.Effect) string {
	switch effect.Kind {
	case usecase.EffectPhraseActivated:
		return fmt.Sprintf("短语 #%d 已激活, 可加入学习", effect.PhraseID)
	case usecase.EffectStudyEntryDeactivated:
		return fmt.Sprintf("词条 #%d 暂停单独学习", effect.VocabItemID)
	case usecase.EffectCardsDeactivated:
		return fmt.Sprintf("停用 %d 张卡片", len(effect.CardIDs))
	case usecase.EffectStudyEntryReactivated:
		return fmt.Sprintf("词条 #%d 恢复单独学习", effect.VocabItemID)
	case usecase.EffectCardsReactivated:
		return fmt.Sprintf("恢复 %d 张卡片", len(effect.CardIDs))
	case usecase.EffectProgressReset:
		return fmt.Sprintf("重置 %d 张卡片的进度", len(effect.CardIDs))
	case usecase.EffectSkippedEdge:
		return effect.Detail
	default:
		return effect.Kind.String()
	}
}

func init() {
	rootCmd.AddCommand(reviewCmd)

	reviewCmd.Flags().Int32P("limit", "n", 0, "单批到期卡片数量, 0 表示取配置 review.due_limit")
}
