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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/eslsoft/phrasenet/internal/adapter/repository"
	"github.com/eslsoft/phrasenet/internal/entity"
	"github.com/eslsoft/phrasenet/internal/infrastructure/config"
	"github.com/eslsoft/phrasenet/internal/infrastructure/database"
	"github.com/eslsoft/phrasenet/internal/usecase"
)

// dbInitCmd migrates the schema and optionally seeds the vocabulary
// from a TSV word list.
var dbInitCmd = &cobra.Command{
	Use:   "db-init",
	Short: "初始化数据库, 可选导入词表",
	Long: `执行数据库迁移。通过 --seed 从 TSV 词表导入词条。
词表每行六列, 以制表符分隔: 形式、读音、释义、等级、分类、变体。
前三列必填; 变体用 | 分隔; 空行和 # 开头的行跳过。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		seedPath, _ := cmd.Flags().GetString("seed")

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}
		db, cleanup, err := database.Open(cfg)
		if err != nil {
			return fmt.Errorf("连接数据库失败: %w", err)
		}
		defer cleanup()

		if err := repository.Migrate(db); err != nil {
			return fmt.Errorf("执行迁移失败: %w", err)
		}
		cmd.Println("数据库迁移完成")

		if seedPath == "" {
			return nil
		}
		return seedVocabList(cmd.Context(), cmd, db, seedPath)
	},
}

func seedVocabList(ctx context.Context, cmd *cobra.Command, db *gorm.DB, path string) error {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("打开词表失败: %w", err)
	}
	defer file.Close()

	vocab := usecase.NewVocabUsecase(repository.NewVocabRepository(db))

	var created, skipped, lineNo int
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		input, err := parseVocabLine(line)
		if err != nil {
			return fmt.Errorf("第 %d 行: %w", lineNo, err)
		}
		if _, err := vocab.CreateVocabItem(ctx, input); err != nil {
			if errors.Is(err, entity.ErrDuplicateVocab) {
				skipped++
				continue
			}
			return fmt.Errorf("第 %d 行导入失败: %w", lineNo, err)
		}
		created++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("读取词表失败: %w", err)
	}

	cmd.Printf("词表导入完成: 新增 %d 条, 跳过已存在 %d 条\n", created, skipped)
	return nil
}

// parseVocabLine splits one TSV row into a create input. Missing level
// defaults to 1; trailing columns may be omitted entirely.
func parseVocabLine(line string) (usecase.CreateVocabInput, error) {
	cols := strings.Split(line, "\t")
	if len(cols) < 3 {
		return usecase.CreateVocabInput{}, fmt.Errorf("至少需要 形式/读音/释义 三列, 实际 %d 列", len(cols))
	}
	for i, col := range cols {
		cols[i] = strings.TrimSpace(col)
	}

	input := usecase.CreateVocabInput{
		Form:          cols[0],
		Pronunciation: cols[1],
		Meaning:       cols[2],
		Level:         1,
	}
	if len(cols) > 3 && cols[3] != "" {
		level, err := strconv.ParseInt(cols[3], 10, 32)
		if err != nil {
			return usecase.CreateVocabInput{}, fmt.Errorf("等级列无法解析: %q", cols[3])
		}
		input.Level = int32(level)
	}
	if len(cols) > 4 {
		input.Category = cols[4]
	}
	if len(cols) > 5 {
		input.AltForms = splitAltForms(cols[5])
	}
	return input, nil
}

func splitAltForms(raw string) []string {
	var alts []string
	for _, part := range strings.Split(raw, "|") {
		if part = strings.TrimSpace(part); part != "" {
			alts = append(alts, part)
		}
	}
	return alts
}

func init() {
	rootCmd.AddCommand(dbInitCmd)

	dbInitCmd.Flags().String("seed", "", "TSV 词表文件路径")
}
