package services

// Reason texts returned to callers. They are part of the API and asserted
// by clients, so they must not change.
const (
	MsgClientCreateDenied = "You do not have permission to create a client."
	MsgClientUpdateDenied = "You do not have permission to update this client."
	MsgClientDeleteDenied = "You don't have permission to delete this client."
	MsgClientAccessDenied = "You do not have permission to access this client."
	MsgClientAssignDenied = "You do not have permission to assign clients."

	MsgContractCreateDenied = "You do not have permission to create a contract."
	MsgContractUpdateDenied = "You do not have permission to update this contract."
	MsgContractDeleteDenied = "You do not have permission to delete this contract."
	MsgContractAccessDenied = "You do not have permission to access this contract."
	MsgContractListDenied   = "You do not have permission to list contracts."

	MsgEventCreateDenied = "You do not have permission to create a event."
	MsgEventUpdateDenied = "You do not have permission to update this event."
	MsgEventDeleteDenied = "You do not have permission to delete this event."
	MsgEventAccessDenied = "You do not have permission to access this event."
	MsgEventListDenied   = "You do not have permission to list events."

	MsgContractNotSigned = "The associated contract is not signed. Cannot create the event."
	MsgEventExists       = "An event already exists for this contract. Cannot create another event."

	MsgIdentityDenied = "You do not have permission to manage identities."
	MsgReportDenied   = "You do not have permission to view reports."

	MsgClientCreated   = "Client successfully created."
	MsgClientUpdated   = "Client successfully updated."
	MsgClientDeleted   = "Client successfully deleted."
	MsgContractCreated = "Contract successfully created."
	MsgContractUpdated = "Contract successfully updated."
	MsgContractDeleted = "Contract successfully deleted."
	MsgEventCreated    = "Event successfully created."
	MsgEventUpdated    = "Event successfully updated."
	MsgEventDeleted    = "Event successfully deleted."
	MsgIdentityCreated = "Identity successfully created."
	MsgIdentityUpdated = "Identity successfully updated."
	MsgIdentityDeleted = "Identity successfully deleted."
)

// Audited operation names.
const (
	opList    = "list"
	opDetail  = "detail"
	opCreate  = "create"
	opUpdate  = "update"
	opDestroy = "destroy"
)
