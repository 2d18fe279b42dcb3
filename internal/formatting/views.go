package formatting

import (
	"partnerplane/internal/partner"
	"partnerplane/internal/partnership"
)

// PartnerView is the exported shape of a partner.
type PartnerView struct {
	Name       string             `json:"name"`
	Attributes partner.Attributes `json:"attributes"`
}

// PartnershipView is the exported shape of a partnership.
type PartnershipView struct {
	Name        string             `json:"name"`
	Sender      string             `json:"sender"`
	Receiver    string             `json:"receiver"`
	SenderIDs   partner.Attributes `json:"senderIDs"`
	ReceiverIDs partner.Attributes `json:"receiverIDs"`
	Attributes  partner.Attributes `json:"attributes"`
}

// PartnerViews returns the partners of snap in order.
func PartnerViews(snap *partnership.Snapshot) []PartnerView {
	views := make([]PartnerView, 0, snap.Partners.Len())
	for _, p := range snap.Partners.All() {
		views = append(views, PartnerView{Name: p.Name(), Attributes: p.Attributes})
	}
	return views
}

// PartnershipViews returns the partnerships of snap in order.
func PartnershipViews(snap *partnership.Snapshot) []PartnershipView {
	views := make([]PartnershipView, 0, snap.Partnerships.Len())
	for _, ps := range snap.Partnerships.All() {
		views = append(views, PartnershipView{
			Name:        ps.Name,
			Sender:      ps.SenderName(),
			Receiver:    ps.ReceiverName(),
			SenderIDs:   ps.SenderIDs,
			ReceiverIDs: ps.ReceiverIDs,
			Attributes:  ps.Attributes,
		})
	}
	return views
}
