package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"bjxgj-exporter/lib/scrapers/bjxgj"
	"bjxgj-exporter/lib/session"

	"github.com/mdp/qrterminal/v3"
)

// loginGateway binds the session state machine to the real backend.
type loginGateway struct {
	client *bjxgj.Client
}

func (g loginGateway) Probe(ctx context.Context, token string) error {
	_, err := g.client.UserChildren(ctx, token)
	return err
}

func (g loginGateway) CreateTicket(ctx context.Context) (session.Ticket, error) {
	ticket, err := g.client.GetQRTicket(ctx)
	if err != nil {
		return session.Ticket{}, err
	}
	return session.Ticket{
		URL:    bjxgj.QRCodeURL(ticket.Ticket),
		Random: ticket.Random,
	}, nil
}

func (g loginGateway) CheckLogin(ctx context.Context, random string) (int, string, string, error) {
	status, err := g.client.CheckLoginStatus(ctx, random)
	return status.Code, status.Msg, status.Data, err
}

// authenticate produces a valid session, running the interactive QR
// flow when neither the env-seeded nor the cached token survives the
// probe call. Terminal login failure exits the process.
func authenticate(ctx context.Context, client *bjxgj.Client, cfg Config) session.Session {
	mgr := session.NewManager(session.NewCache(cfg.CachePath), loginGateway{client})
	if token := os.Getenv("JWTTOKEN"); token != "" {
		mgr.Seed(token, os.Getenv("IMPRINT"))
	}

	ticket, err := mgr.Start(ctx)
	if err != nil {
		fatal("failed to start login", err)
	}
	if mgr.State() == session.StateAuthenticated {
		return mgr.Session()
	}

	fmt.Println("请扫描以下二维码登录：")
	fmt.Println("或者在浏览器中打开以下链接：")
	fmt.Println(ticket.URL)
	qrterminal.GenerateHalfBlock(ticket.URL, qrterminal.L, os.Stdout)

	// polling is paced by the operator, one status check per Enter
	stdin := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("按回车键尝试登录...")
		if !stdin.Scan() {
			fatal("stdin closed during login", fmt.Errorf("aborted"))
		}

		res, err := mgr.Poll(ctx)
		if errors.Is(err, session.ErrLoginFailed) {
			fmt.Println("登录失败：", err)
			os.Exit(1)
		}
		if err != nil {
			fatal("failed to check login status", err)
		}
		if res == session.PollAuthenticated {
			fmt.Println("登录成功！")
			return mgr.Session()
		}
		fmt.Println("等待扫码...")
	}
}
