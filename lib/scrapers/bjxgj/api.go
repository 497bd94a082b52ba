package bjxgj

import (
	"context"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// UserChildren fetches the children bound to the logged-in account.
// It doubles as the probe call for cached tokens since it is the
// cheapest authenticated endpoint the flow needs anyway.
func (c *Client) UserChildren(ctx context.Context, token string) ([]Child, error) {
	ctx, span := tracer.Start(ctx, "client:UserChildren")
	defer span.End()

	var out struct {
		Data struct {
			ChildList []Child `json:"childList"`
		} `json:"data"`
	}
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("authorization", token).
		SetBody(struct{}{}).
		SetResult(&out).
		Post(c.serviceBaseUrl + "/app/getUserChildInfoApp")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch user children")
		return nil, err
	}
	if err := checkStatus(res); err != nil {
		span.SetStatus(codes.Error, "user children request rejected")
		return nil, err
	}
	return out.Data.ChildList, nil
}

// RecordsPage fetches one page of the parent/record list.
func (c *Client) RecordsPage(ctx context.Context, token string, memberIDs []string, page, size int) ([]Record, error) {
	ctx, span := tracer.Start(ctx, "client:RecordsPage")
	defer span.End()
	span.SetAttributes(attribute.Int("page", page))

	var out struct {
		Data []Record `json:"data"`
	}
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("authorization", token).
		SetQueryParams(map[string]string{
			"members":  strings.Join(memberIDs, ":"),
			"type":     "-1",
			"date":     "-1",
			"page":     strconv.Itoa(page),
			"size":     strconv.Itoa(size),
			"isRecent": "false",
		}).
		SetResult(&out).
		Get("/info/getParent")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch record page")
		return nil, err
	}
	if err := checkStatus(res); err != nil {
		span.SetStatus(codes.Error, "record page request rejected")
		return nil, err
	}
	return out.Data, nil
}

// ClassesByMembers resolves the classes the given members belong to,
// used to build the class-id to class-name map.
func (c *Client) ClassesByMembers(ctx context.Context, token string, memberIDs []string) ([]ClassInfo, error) {
	ctx, span := tracer.Start(ctx, "client:ClassesByMembers")
	defer span.End()

	var out struct {
		Data []ClassInfo `json:"data"`
	}
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("authorization", token).
		SetBody(map[string][]string{"member_ids": memberIDs}).
		SetResult(&out).
		Post("/applet/getClassByMemberId")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch classes")
		return nil, err
	}
	if err := checkStatus(res); err != nil {
		span.SetStatus(codes.Error, "classes request rejected")
		return nil, err
	}
	return out.Data, nil
}

// ClassRoster fetches the ordered student-name roster of a class.
func (c *Client) ClassRoster(ctx context.Context, token string, cid string) ([]string, error) {
	ctx, span := tracer.Start(ctx, "client:ClassRoster")
	defer span.End()

	var out struct {
		Data struct {
			Class struct {
				Rosters []struct {
					Name string `json:"name"`
				} `json:"rosters"`
			} `json:"class"`
		} `json:"data"`
	}
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("authorization", token).
		SetBody(map[string]string{"cid": cid}).
		SetResult(&out).
		Post("/applet/getClassById")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch class roster")
		return nil, err
	}
	if err := checkStatus(res); err != nil {
		span.SetStatus(codes.Error, "class roster request rejected")
		return nil, err
	}

	names := make([]string, len(out.Data.Class.Rosters))
	for i, roster := range out.Data.Class.Rosters {
		names[i] = roster.Name
	}
	return names, nil
}

// ClassMembers fetches the full member dump of a class, teachers and
// students together with their declared family contacts.
func (c *Client) ClassMembers(ctx context.Context, token string, cid string) ([]Member, error) {
	ctx, span := tracer.Start(ctx, "client:ClassMembers")
	defer span.End()

	var out struct {
		Data struct {
			Members []Member `json:"members"`
		} `json:"data"`
	}
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("authorization", token).
		SetBody(map[string]string{"cid": cid}).
		SetResult(&out).
		Post("/applet/getClassMemberById")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch class members")
		return nil, err
	}
	if err := checkStatus(res); err != nil {
		span.SetStatus(codes.Error, "class members request rejected")
		return nil, err
	}
	return out.Data.Members, nil
}

// StudentScore fetches one student's per-subject scores from a score
// sheet. Unlike every other authenticated call this one is keyed by the
// sheet creator's imprint rather than the session token.
func (c *Client) StudentScore(ctx context.Context, imprint string, name, scoreID string) ([]ScoreEntry, error) {
	ctx, span := tracer.Start(ctx, "client:StudentScore")
	defer span.End()

	var out struct {
		Data struct {
			StudentScore struct {
				ScoreDetail []ScoreEntry `json:"score_detail"`
			} `json:"studentScore"`
		} `json:"data"`
	}
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("imprint", imprint).
		SetBody(map[string]string{"id": scoreID, "name": name}).
		SetResult(&out).
		Post("/getStudentScoreById")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch student score")
		return nil, err
	}
	if err := checkStatus(res); err != nil {
		span.SetStatus(codes.Error, "student score request rejected")
		return nil, err
	}
	return out.Data.StudentScore.ScoreDetail, nil
}
