// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package examples

import (
	"encoding/hex"
	"log"
)

// bankABI is the interface shared by all bank examples.
const bankABI = `[
	{"inputs":[{"internalType":"address","name":"","type":"address"}],"name":"balances","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"deposit","outputs":[],"stateMutability":"payable","type":"function"},
	{"inputs":[],"name":"withdraw","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

func GetSillyBankExample() Example {
	/* Solidity code for the silly bank:
	// SPDX-License-Identifier: MIT
	pragma solidity ^0.8;

	contract SillyBank {
		mapping(address => uint) public balances;

		function deposit() public payable {
			balances[msg.sender] += msg.value;
		}

		function withdraw() public {
			uint bal = balances[msg.sender];
			require(bal > 0);
			(bool sent, ) = msg.sender.call{value: bal}("");
			require(sent, "Failed to send Ether");
			balances[msg.sender] = 0;
		}
	}
	*/
	code, err := hex.DecodeString("608060405234801561001057600080fd5b5061046a806100206000396000f3fe6080604052600436106100345760003560e01c806327e235e3146100395780633ccfd60b14610076578063d0e30db01461008d575b600080fd5b34801561004557600080fd5b50610060600480360381019061005b91906102ad565b610097565b60405161006d91906102f3565b60405180910390f35b34801561008257600080fd5b5061008b6100af565b005b6100956101f3565b005b60006020528060005260406000206000915090505481565b60008060003373ffffffffffffffffffffffffffffffffffffffff1673ffffffffffffffffffffffffffffffffffffffff168152602001908152602001600020549050600081116100ff57600080fd5b60003373ffffffffffffffffffffffffffffffffffffffff16826040516101259061033f565b60006040518083038185875af1925050503d8060008114610162576040519150601f19603f3d011682016040523d82523d6000602084013e610167565b606091505b50509050806101ab576040517f08c379a00000000000000000000000000000000000000000000000000000000081526004016101a2906103b1565b60405180910390fd5b60008060003373ffffffffffffffffffffffffffffffffffffffff1673ffffffffffffffffffffffffffffffffffffffff168152602001908152602001600020819055505050565b346000803373ffffffffffffffffffffffffffffffffffffffff1673ffffffffffffffffffffffffffffffffffffffff16815260200190815260200160002060008282546102419190610400565b92505081905550565b600080fd5b600073ffffffffffffffffffffffffffffffffffffffff82169050919050565b600061027a8261024f565b9050919050565b61028a8161026f565b811461029557600080fd5b50565b6000813590506102a781610281565b92915050565b6000602082840312156102c3576102c261024a565b5b60006102d184828501610298565b91505092915050565b6000819050919050565b6102ed816102da565b82525050565b600060208201905061030860008301846102e4565b92915050565b600081905092915050565b50565b600061032960008361030e565b915061033482610319565b600082019050919050565b600061034a8261031c565b9150819050919050565b600082825260208201905092915050565b7f4661696c656420746f2073656e64204574686572000000000000000000000000600082015250565b600061039b601483610354565b91506103a682610365565b602082019050919050565b600060208201905081810360008301526103ca8161038e565b9050919050565b7f4e487b7100000000000000000000000000000000000000000000000000000000600052601160045260246000fd5b600061040b826102da565b9150610416836102da565b925082820190508082111561042e5761042d6103d1565b5b9291505056fea264697066735822122037ddd9486011c735edb384438937c3db22ec58f4325d00c7fad440b0007e1d7f64736f6c63430008120033")
	if err != nil {
		log.Fatalf("Unable to decode silly-bank-code: %v", err)
	}

	return exampleSpec{
		Name:        "sillybank",
		Description: "pays out before clearing the balance, vulnerable to reentrancy",
		code:        code,
		abiJSON:     bankABI,
	}.build()
}

func GetSafeBankExample() Example {
	// Hand-assembled bank with the silly bank's interface and storage layout.
	// withdraw clears the balance before paying out:
	//
	//	slot := keccak256(caller . 0)
	//	bal := sload(slot)
	//	if bal == 0 { revert }
	//	sstore(slot, 0)
	//	if !call(gas, caller, bal, 0, 0, 0, 0) { revert }
	code, err := hex.DecodeString("61007f80600a5f395ff36004361061002e575f3560e01c8063d0e30db0146100325780633ccfd60b1461004557806327e235e31461006a575b5f5ffd5b335f525f60205260405f20805434019055005b335f525f60205260405f208054801561002e575f82555f5f5f5f84335af11561002e57005b6004355f525f60205260405f20545f5260205ff3")
	if err != nil {
		log.Fatalf("Unable to decode safe-bank-code: %v", err)
	}

	return exampleSpec{
		Name:        "safebank",
		Description: "clears the balance before paying out",
		code:        code,
		abiJSON:     bankABI,
	}.build()
}
