package store

import (
	"context"
	"database/sql"

	"github.com/ignite/scheduler-engine/internal/datekernel"
	"github.com/ignite/scheduler-engine/internal/domain"
)

// LoadContacts streams the full contact population for the current
// organization (spec §6 table `contacts`). The engine holds the
// result in memory and partitions it into batches itself (spec §5);
// at three million contacts and a handful of scalar columns each,
// that is a few hundred MB, well within a batch job's footprint.
//
// A contact whose birth_date or effective_date fails to parse is
// excluded from the returned slice and reported via failed instead of
// failing the load (spec §7: InvalidDate/ParseError are treated as
// InvalidContactData, isolated per contact).
func (s *Store) LoadContacts(ctx context.Context) (contacts []domain.Contact, failed []domain.FailedContact, err error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, birth_date, effective_date, state, zip_code, carrier, failed_underwriting
		FROM contacts
	`)
	if err != nil {
		return nil, nil, wrapStoreErr("load contacts", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id                      int64
			email, state, zip, carr sql.NullString
			birthDate, effDate      sql.NullString
			failedUW                bool
		)
		if err := rows.Scan(&id, &email, &birthDate, &effDate, &state, &zip, &carr, &failedUW); err != nil {
			return nil, nil, wrapStoreErr("scan contact", err)
		}

		c := domain.Contact{
			ID:                 id,
			Email:              email.String,
			ZIP:                zip.String,
			Carrier:            carr.String,
			FailedUnderwriting: failedUW,
			Jurisdiction:       domain.JurisdictionOther,
		}
		if state.Valid && state.String != "" {
			c.Jurisdiction = domain.Jurisdiction(state.String)
		}

		bad := false
		if birthDate.Valid && birthDate.String != "" {
			d, perr := datekernel.Parse(birthDate.String)
			if perr != nil {
				failed = append(failed, domain.FailedContact{ContactID: id, Reason: (&domain.InvalidContactData{ContactID: id, Reason: perr.Error()}).Error()})
				bad = true
			} else {
				c.BirthDate = &d
			}
		}
		if !bad && effDate.Valid && effDate.String != "" {
			d, perr := datekernel.Parse(effDate.String)
			if perr != nil {
				failed = append(failed, domain.FailedContact{ContactID: id, Reason: (&domain.InvalidContactData{ContactID: id, Reason: perr.Error()}).Error()})
				bad = true
			} else {
				c.EffectiveDate = &d
			}
		}
		if bad {
			continue
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, wrapStoreErr("iterate contacts", err)
	}
	return contacts, failed, nil
}
