package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"bjxgj-exporter/lib/export"
	"bjxgj-exporter/lib/scrapers/bjxgj"
	"bjxgj-exporter/lib/session"
	"bjxgj-exporter/lib/sheets"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(exportCmd)
}

// dataGateway binds the normalization pipeline to the backend with the
// session threaded in, the pipeline itself never sees credentials.
type dataGateway struct {
	client  *bjxgj.Client
	token   string
	imprint string
}

func (g dataGateway) ClassRoster(ctx context.Context, cid string) ([]string, error) {
	return g.client.ClassRoster(ctx, g.token, cid)
}

func (g dataGateway) ClassMembers(ctx context.Context, cid string) ([]bjxgj.Member, error) {
	return g.client.ClassMembers(ctx, g.token, cid)
}

func (g dataGateway) StudentScore(ctx context.Context, name, scoreID string) ([]bjxgj.ScoreEntry, error) {
	return g.client.StudentScore(ctx, g.imprint, name, scoreID)
}

type workspace struct {
	client  *bjxgj.Client
	sess    session.Session
	records []bjxgj.Record
	classes []bjxgj.ClassInfo
	// class id -> class display name
	classMap map[string]string
}

func fetchWorkspace(ctx context.Context, cfg Config) workspace {
	client := bjxgj.NewClient(bjxgj.ClientOptions{})
	sess := authenticate(ctx, client, cfg)

	children, err := client.UserChildren(ctx, sess.Token)
	if err != nil {
		fatal("failed to fetch account children", err)
	}
	if len(children) == 0 {
		fatal("no children bound to this account", fmt.Errorf("empty child list"))
	}
	memberIDs := make([]string, len(children))
	for i, child := range children {
		memberIDs[i] = child.MemberID
	}

	records, err := client.Records(ctx, sess.Token, memberIDs, cfg.PageSize)
	if err != nil {
		fatal("failed to fetch record list", err)
	}

	classes, err := client.ClassesByMembers(ctx, sess.Token, memberIDs)
	if err != nil {
		fatal("failed to fetch classes", err)
	}
	classMap := map[string]string{}
	for _, cls := range classes {
		classMap[cls.ID] = cls.ClassName
	}

	return workspace{
		client:   client,
		sess:     sess,
		records:  records,
		classes:  classes,
		classMap: classMap,
	}
}

func renderRecordList(ws workspace) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"编号", "标题", "班级", "创建者", "类型"})
	t.AppendRow(table.Row{0, "全部班级成员名单", "-", "-", sheets.KindRosterDump})
	for i, rec := range ws.records {
		className, ok := ws.classMap[rec.Cls]
		if !ok {
			className = "未知班级"
		}
		t.AppendRow(table.Row{
			i + 1, rec.Title, className, rec.CreatorName, sheets.KindOf(rec.Type),
		})
	}
	t.Render()
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Pick a record and export it as an .xlsx workbook (0 exports every class roster).",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := loadConfig()
		ws := fetchWorkspace(ctx, cfg)

		fmt.Println("请选择要导出的记录：")
		renderRecordList(ws)

		fmt.Print("请输入选择的编号：")
		stdin := bufio.NewScanner(os.Stdin)
		if !stdin.Scan() {
			fatal("stdin closed during selection", fmt.Errorf("aborted"))
		}
		choice, err := strconv.Atoi(stdin.Text())
		if err != nil {
			fatal("invalid selection", err)
		}

		switch {
		case choice == 0:
			exportAllRosters(ctx, cfg, ws)
		case choice >= 1 && choice <= len(ws.records):
			exportRecord(ctx, cfg, ws, ws.records[choice-1])
		default:
			fatal("selection out of range", fmt.Errorf("%d is not between 0 and %d", choice, len(ws.records)))
		}
	},
}

func exportRecord(ctx context.Context, cfg Config, ws workspace, rec bjxgj.Record) {
	kind := sheets.KindOf(rec.Type)
	if kind == sheets.KindUnsupported {
		fmt.Printf("暂不支持导出该类型的记录（type=%d），已跳过\n", rec.Type)
		return
	}

	gw := dataGateway{client: ws.client, token: ws.sess.Token, imprint: ws.sess.Imprint}
	if rec.CreatorOpenID != "" {
		// the score-detail endpoint authenticates against the sheet
		// creator, not the logged-in parent
		gw.imprint = rec.CreatorOpenID
	}
	normalizer := sheets.Normalizer{Gateway: gw, Classes: ws.classMap}

	var pw progress.Writer
	if kind == sheets.KindScoreSheet {
		pw = progress.NewWriter()
		pw.SetOutputWriter(os.Stdout)
		pw.SetTrackerLength(20)
		pw.SetUpdateFrequency(time.Millisecond * 100)
		go pw.Render()

		var tracker *progress.Tracker
		normalizer.OnScoreProgress = func(index, total int, name string, err error) {
			if tracker == nil {
				tracker = &progress.Tracker{Message: "获取成绩", Total: int64(total)}
				pw.AppendTracker(tracker)
			}
			tracker.Increment(1)
			if err != nil {
				pw.Log("%d号 %s - 获取成绩失败", index, name)
			} else {
				pw.Log("%d号 %s - 成绩获取成功", index, name)
			}
		}
	}

	tbl, err := normalizer.Normalize(ctx, rec)
	if pw != nil {
		pw.Stop()
		for pw.IsRenderInProgress() {
			time.Sleep(time.Millisecond * 10)
		}
	}
	if errors.Is(err, sheets.ErrMalformedSheet) {
		fmt.Println("该记录数据不完整，无法导出：", err)
		return
	}
	if err != nil {
		fatal("failed to normalize record", err)
	}

	writeTable(ctx, cfg, tbl, kind)
}

// exportAllRosters runs the roster algorithm once per known class,
// each class failing or succeeding on its own.
func exportAllRosters(ctx context.Context, cfg Config, ws workspace) {
	gw := dataGateway{client: ws.client, token: ws.sess.Token, imprint: ws.sess.Imprint}
	normalizer := sheets.Normalizer{Gateway: gw, Classes: ws.classMap}

	for _, cls := range ws.classes {
		tbl, err := normalizer.RosterTable(ctx, cls.ID)
		if err != nil {
			fmt.Printf("获取班级 %s 成员失败：%s\n", cls.ClassName, err)
			continue
		}
		writeTable(ctx, cfg, tbl, sheets.KindRosterDump)
	}
}

func writeTable(ctx context.Context, cfg Config, tbl sheets.Table, kind sheets.Kind) {
	path, err := export.WriteXLSX(ctx, tbl, kind.String(), cfg.OutputDir)
	if err != nil {
		fatal("failed to write workbook", err)
	}
	fmt.Printf("\n所有数据获取完毕，已保存到%s\n", path)
}
