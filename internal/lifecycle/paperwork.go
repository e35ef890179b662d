package lifecycle

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"bridged/internal/models"
)

// Party identifies who is signing a document.
type Party string

const (
	PartyCompany Party = "company"
	PartyAthlete Party = "athlete"
	PartyParent  Party = "parent"
)

// Email event types emitted by the paperwork lifecycle.
const (
	EventAgreementUploaded = "agreement_uploaded"
	EventDocumentSigned    = "document_signed"
)

// CanSignInternship guards internship agreement signatures: the agreement
// file must be uploaded first, regardless of who is signing.
func CanSignInternship(agreementURL string) bool {
	return agreementURL != ""
}

// PaperworkService drives the per-document co-signing flags. Signing is a
// one-way flag flip; no un-sign operation exists.
type PaperworkService struct {
	db  *models.DB
	log *logrus.Logger
}

// NewPaperworkService creates a new PaperworkService
func NewPaperworkService(db *models.DB, log *logrus.Logger) *PaperworkService {
	return &PaperworkService{db: db, log: log}
}

// SetAgreementURL records the uploaded internship agreement file and
// notifies both parties that it is ready to sign.
func (s *PaperworkService) SetAgreementURL(partnershipID uuid.UUID, url string) error {
	if url == "" {
		return fmt.Errorf("%w: agreement URL is required", ErrValidation)
	}

	return s.db.Transaction(func(tx *models.DB) error {
		p, err := tx.Partnerships.Get(partnershipID)
		if err != nil {
			return err
		}

		p.InternshipAgreementURL = url
		if err := tx.Partnerships.Update(p); err != nil {
			return err
		}

		return enqueue(tx,
			Notify(EventAgreementUploaded, p.AthleteID,
				"Agreement ready", "The internship agreement is ready to sign."),
			Notify(EventAgreementUploaded, p.CompanyID,
				"Agreement ready", "The internship agreement is ready to sign."),
		)
	})
}

// Sign flips one signature flag for the given document and party, applying
// the document's guards first.
func (s *PaperworkService) Sign(partnershipID uuid.UUID, doc models.DocumentType, party Party) error {
	err := s.db.Transaction(func(tx *models.DB) error {
		p, err := tx.Partnerships.Get(partnershipID)
		if err != nil {
			return err
		}

		now := time.Now()
		switch doc {
		case models.DocPlatformAgreement:
			switch party {
			case PartyCompany:
				if p.PlatformSignedByCompany {
					return nil
				}
				p.PlatformSignedByCompany = true
				p.PlatformSignedByCompanyAt = &now
			case PartyAthlete:
				if p.PlatformSignedByAthlete {
					return nil
				}
				p.PlatformSignedByAthlete = true
				p.PlatformSignedByAthleteAt = &now
			default:
				return fmt.Errorf("%w: %s cannot sign the platform agreement", ErrForbidden, party)
			}

		case models.DocInternshipAgreement:
			if !CanSignInternship(p.InternshipAgreementURL) {
				return fmt.Errorf("%w: the internship agreement must be uploaded before signing", ErrValidation)
			}
			switch party {
			case PartyCompany:
				if p.InternshipSignedByCompany {
					return nil
				}
				p.InternshipSignedByCompany = true
				p.InternshipSignedByCompanyAt = &now
			case PartyAthlete:
				if p.InternshipSignedByAthlete {
					return nil
				}
				p.InternshipSignedByAthlete = true
				p.InternshipSignedByAthleteAt = &now
			default:
				return fmt.Errorf("%w: %s cannot sign the internship agreement", ErrForbidden, party)
			}

		case models.DocParentalConsent:
			athlete, err := tx.Users.Get(p.AthleteID)
			if err != nil {
				return err
			}
			switch party {
			case PartyParent:
				if !athlete.HasParentInfo() {
					return fmt.Errorf("%w: parent name and email must be saved before the parent can sign", ErrValidation)
				}
				if p.ConsentSignedByParent {
					return nil
				}
				p.ConsentSignedByParent = true
				p.ConsentSignedByParentAt = &now
			case PartyAthlete:
				if !p.ConsentSignedByParent {
					return fmt.Errorf("%w: the parent must sign before the athlete acknowledges", ErrValidation)
				}
				if p.ConsentAckedByAthlete {
					return nil
				}
				p.ConsentAckedByAthlete = true
				p.ConsentAckedByAthleteAt = &now
			default:
				return fmt.Errorf("%w: %s cannot sign the parental consent", ErrForbidden, party)
			}

		default:
			return fmt.Errorf("%w: unknown document type %q", ErrValidation, doc)
		}

		return tx.Partnerships.Update(p)
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"partnership_id": partnershipID,
		"document":       doc,
		"party":          party,
	}).Info("document signed")
	return nil
}
