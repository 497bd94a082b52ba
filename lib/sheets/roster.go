package sheets

import (
	"context"
	"fmt"

	"bjxgj-exporter/lib/scrapers/bjxgj"
)

const (
	colPhone  = "电话"
	colWxName = "微信名"
	colAvatar = "头像"
	colRole   = "身份"

	roleStudent = "学生"
)

// RosterTable flattens a class member dump into one table: every member
// in teachers-then-students order, each followed immediately by one row
// per family contact. Guardian rows leave the identity cell blank and
// carry a role label pointing back at the member.
//
// This is exported separately from the record dispatch because the
// all-classes batch mode runs it once per known class without a record.
func (n Normalizer) RosterTable(ctx context.Context, cid string) (Table, error) {
	ctx, span := tracer.Start(ctx, "normalizer:RosterTable")
	defer span.End()

	members, err := n.Gateway.ClassMembers(ctx, cid)
	if err != nil {
		return Table{}, fmt.Errorf("fetch class members: %w", err)
	}

	// relative order within each group is the backend's order
	var teachers, students []bjxgj.Member
	for _, m := range members {
		if m.TeachSubject != "" {
			teachers = append(teachers, m)
		} else {
			students = append(students, m)
		}
	}

	var rows []map[string]string
	appendMember := func(m bjxgj.Member, role string) {
		rows = append(rows, map[string]string{
			IdentityColumn: m.Name,
			colPhone:       m.Phone,
			colWxName:      m.WxName,
			colAvatar:      m.Avatar,
			colRole:        role,
		})
		for _, f := range m.Family {
			rows = append(rows, map[string]string{
				IdentityColumn: "",
				colPhone:       f.Phone,
				colWxName:      f.WxName,
				colAvatar:      f.Avatar,
				colRole:        fmt.Sprintf("%s的家长", m.Name),
			})
		}
	}

	for _, m := range teachers {
		appendMember(m, fmt.Sprintf("%s老师", m.TeachSubject))
	}
	for _, m := range students {
		appendMember(m, roleStudent)
	}

	return Table{
		Columns: []string{IdentityColumn, colPhone, colWxName, colAvatar, colRole},
		Rows:    rows,
		Name:    fmt.Sprintf("%s_成员名单", n.className(cid)),
	}, nil
}

func (n Normalizer) rosterDump(ctx context.Context, rec bjxgj.Record) (Table, error) {
	table, err := n.RosterTable(ctx, rec.Cls)
	if err != nil {
		return Table{}, err
	}
	if rec.Title != "" {
		table.Name = fmt.Sprintf("%s_%s", rec.Title, n.className(rec.Cls))
	}
	return table, nil
}
