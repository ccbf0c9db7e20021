// Package mockdata генерирует детерминированные демонстрационные наборы данных.
package mockdata

import (
	"time"

	"github.com/ruslano69/tdtp-datagrid/pkg/core/datatable"
	"github.com/ruslano69/tdtp-datagrid/pkg/core/schema"
)

// DefaultSeed — начальное значение генератора демонстрационного набора
const DefaultSeed int64 = 12345

// DateLayout — формат поля datetime
const DateLayout = "2006-01-02 15:04"

var users = []string{
	"山田 太郎", "佐藤 花子", "鈴木 一郎", "高橋 美咲", "田中 健太",
	"伊藤 由美", "渡辺 翔太", "中村 さくら", "小林 大輔", "加藤 愛美",
	"吉田 圭介", "山本 麻美", "佐々木 拓也", "松本 優子", "井上 浩二",
}

var actions = []string{
	"ログイン", "ログアウト", "ファイルアップロード", "ファイルダウンロード",
	"設定変更", "プロフィール更新", "データ削除", "レポート作成",
	"コメント投稿", "メッセージ送信", "タスク作成", "タスク完了",
}

var statuses = []string{"成功", "保留中", "失敗"}

// lcgModulus — период линейного конгруэнтного генератора
const lcgModulus = 233280

// lcg — линейный конгруэнтный генератор с периодом lcgModulus
type lcg struct {
	seed int64
}

// next приводит seed к [0, lcgModulus) до умножения: отрицательный
// или очень большой seed не дает отрицательного индекса и переполнения
func (g *lcg) next() float64 {
	s := g.seed % lcgModulus
	if s < 0 {
		s += lcgModulus
	}
	g.seed = (s*9301 + 49297) % lcgModulus
	return float64(g.seed) / lcgModulus
}

func (g *lcg) intn(n int) int {
	return int(g.next() * float64(n))
}

// Activities генерирует n записей журнала активности.
// Одинаковые seed и now всегда дают одинаковый набор.
func Activities(n int, seed int64, now time.Time) []datatable.Record {
	if n <= 0 {
		return nil
	}

	g := &lcg{seed: seed}
	rows := make([]datatable.Record, 0, n)

	for i := 1; i <= n; i++ {
		user := users[g.intn(len(users))]
		action := actions[g.intn(len(actions))]
		status := statuses[g.intn(len(statuses))]

		daysAgo := g.intn(30)
		hour := g.intn(24)
		minute := g.intn(60)

		day := now.AddDate(0, 0, -daysAgo)
		at := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location())

		rows = append(rows, datatable.Record{
			"id":       i,
			"user":     user,
			"action":   action,
			"datetime": at.Format(DateLayout),
			"status":   status,
		})
	}

	return rows
}

// ActivityColumns возвращает схему набора Activities
func ActivityColumns() []schema.Column {
	return schema.NewBuilder().
		AddNumber("id", "ID").
		AddText("user", "ユーザー").
		AddText("action", "アクション").
		AddDate("datetime", "日時").
		AddText("status", "ステータス").
		Build()
}
