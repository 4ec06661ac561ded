package policy

// DefaultDocuments is the clinic's standing policy corpus.
func DefaultDocuments() []Document {
	return []Document{
		{
			ID:    "POL-001",
			Topic: "Opening hours",
			Content: "The clinic is open Sunday through Thursday from 08:00 to 20:00, " +
				"and Saturday from 09:00 to 14:00. The clinic is closed on Friday. " +
				"Consultation slots run on the hour at 09:00, 10:00, 11:00, 14:00, 15:00 and 16:00.",
		},
		{
			ID:    "POL-002",
			Topic: "Cancellation and no-show",
			Content: "Appointments may be cancelled or rescheduled free of charge up to 24 hours " +
				"before the appointment time. Cancellations within 24 hours or missed appointments " +
				"may incur a no-show fee of AED 100. Three consecutive no-shows require booking " +
				"through the front desk.",
		},
		{
			ID:    "POL-003",
			Topic: "Insurance and payment",
			Content: "The clinic accepts Daman, Thiqa, AXA, MetLife and NextCare insurance networks. " +
				"Direct billing is available for in-network plans; co-payments are collected at check-in. " +
				"Self-pay consultations start at AED 250 for general medicine and AED 400 for specialists.",
		},
		{
			ID:    "POL-004",
			Topic: "New patient registration",
			Content: "New patients should arrive 20 minutes before their first appointment with an " +
				"Emirates ID and insurance card. A medical record number (MRN) is issued at registration " +
				"and is required for phone and online bookings.",
		},
		{
			ID:    "POL-005",
			Topic: "Prescription refills",
			Content: "Repeat prescription requests are processed within two working days and require an " +
				"active patient record. Controlled medications always require an in-person consultation. " +
				"Refills can be collected at the clinic pharmacy or delivered within the city.",
		},
		{
			ID:    "POL-006",
			Topic: "Parking and directions",
			Content: "Free patient parking is available in basement levels B1 and B2; validate the ticket " +
				"at reception. The clinic entrance is on the ground floor of the Horizon Medical Tower, " +
				"next to the main pharmacy.",
		},
		{
			ID:    "POL-007",
			Topic: "Lab results and reports",
			Content: "Routine laboratory results are available within 48 hours through the patient portal " +
				"or by phone after identity verification. Imaging reports take up to five working days. " +
				"Medical reports for insurance or employers are issued within seven working days for a fee of AED 150.",
		},
		{
			ID:    "POL-008",
			Topic: "Emergencies",
			Content: "The clinic is not an emergency facility. Callers with chest pain, difficulty breathing, " +
				"severe bleeding or loss of consciousness should hang up and dial 998 immediately. " +
				"Urgent same-day concerns can be routed to the emergency support queue.",
		},
	}
}
